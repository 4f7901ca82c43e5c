package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/circuitfile"
	"github.com/ha1tch/wiredit/pkg/sim"
)

var dotCmd = &cobra.Command{
	Use:   "dot <file>",
	Short: "Export a circuit as a Graphviz DOT netlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, name, err := loadScene(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return writeOutput(cmd, out, []byte(circuitfile.GenerateDOT(s, name)))
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg <file>",
	Short: "Export a circuit as an SVG drawing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, name, err := loadScene(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		opts := circuitfile.DefaultSVGOptions()
		opts.Title = name
		return writeOutput(cmd, out, []byte(circuitfile.GenerateSVG(s, opts)))
	},
}

var truthtableCmd = &cobra.Command{
	Use:   "truthtable <file>",
	Short: "Print the truth table of a circuit",
	Long: `Drives every switch and button of the circuit through all combinations
and prints the value seen by each LED input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadScene(args[0])
		if err != nil {
			return err
		}
		loop := sim.NewLoop(s)
		loop.Start()
		loop.UpdateAll()
		return sim.WriteTruthTable(cmd.OutOrStdout(), s, loop)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a circuit to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadScene(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = strings.TrimSuffix(args[0], ".wdt") + ".png"
		}
		opts := circuitfile.DefaultPreviewOptions()
		opts.Opacity = 1
		p := circuitfile.RenderPreview(s.Elements(), s.Connections(), opts)
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := circuitfile.WritePreviewPNG(f, p); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Good.Sprint("wrote"), out)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show a summary of a circuit file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, name, err := loadScene(args[0])
		if err != nil {
			return err
		}
		printInfo(cmd, s, name)
		return nil
	},
}

func init() {
	dotCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	svgCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	previewCmd.Flags().StringP("output", "o", "", "Output PNG (default <file>.png)")
	rootCmd.AddCommand(dotCmd, svgCmd, truthtableCmd, previewCmd, infoCmd)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printInfo(cmd *cobra.Command, s *circuit.Scene, name string) {
	w := cmd.OutOrStdout()
	if name == "" {
		name = "(unnamed)"
	}
	r := s.Rect()
	fmt.Fprintf(w, "Name:        %s\n", Brand.Sprint(name))
	fmt.Fprintf(w, "Scene:       %gx%g at (%g,%g)\n", r.W, r.H, r.X, r.Y)
	fmt.Fprintf(w, "Elements:    %d\n", len(s.Elements()))
	fmt.Fprintf(w, "Wires:       %d\n", len(s.Connections()))

	counts := make(map[circuit.Kind]int)
	for _, e := range s.Elements() {
		counts[e.Kind]++
	}
	kinds := make([]circuit.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-9s  %d\n", k, counts[k])
	}

	inputs, outputs := sim.Stimuli(s)
	fmt.Fprintf(w, "Inputs:      %s\n", names(inputs))
	fmt.Fprintf(w, "Outputs:     %s\n", names(outputs))

	var dangling int
	for _, e := range s.Elements() {
		for _, p := range e.Inputs {
			if len(p.Connections()) == 0 {
				dangling++
			}
		}
	}
	if dangling > 0 {
		fmt.Fprintf(w, "%s %d unconnected input(s)\n", Warn.Sprint("warning:"), dangling)
	} else {
		fmt.Fprintf(w, "%s\n", Good.Sprint("all inputs connected"))
	}
}

func names(elems []*circuit.Element) string {
	if len(elems) == 0 {
		return Subtle.Sprint("none")
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.DisplayName()
	}
	return strings.Join(out, ", ")
}
