// Command wiredit edits and inspects digital logic circuits.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/wiredit/internal/config"
	"github.com/ha1tch/wiredit/internal/logging"
	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
)

var rootCmd = &cobra.Command{
	Use:   "wiredit",
	Short: "wiredit is a terminal editor for digital logic circuits",
	Long: `wiredit places gates, switches and LEDs on a canvas, wires them together
with the mouse and simulates the result. Subcommands export netlists and
truth tables of saved circuits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig, appConfigPath = cfg, path
		if !cfg.UI.Color {
			color.NoColor = true
		}
		return nil
	},
}

// Set by the root command before any subcommand runs.
var (
	appConfig     *config.Config
	appConfigPath string
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", Bad.Sprint("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.Path(), "Path to the config file")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")
}

func main() {
	Execute()
}

// loadConfig reads the config file named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// openLogger builds the logger selected by --log-level and --log-file.
// Without a log file, quiet discards everything; otherwise logs go to stderr.
// The returned func closes the log file.
func openLogger(cmd *cobra.Command, quiet bool) (*slog.Logger, func(), error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	path, _ := cmd.Flags().GetString("log-file")
	if path != "" {
		log, f, err := logging.NewFile(path, level)
		if err != nil {
			return nil, nil, err
		}
		return log, func() { f.Close() }, nil
	}
	if quiet {
		return logging.NewNop(), func() {}, nil
	}
	return logging.New(level), func() {}, nil
}

// loadScene reads a circuit file into a fresh scene.
func loadScene(path string) (*circuit.Scene, string, error) {
	c, err := circuitfile.ReadCircuitFile(path, circuit.NewFactory())
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	s := circuit.NewScene()
	if err := c.Apply(s); err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	return s, c.Name, nil
}
