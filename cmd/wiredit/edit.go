package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/wiredit/pkg/clipboard"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the interactive circuit editor",
	Long: `Opens a circuit in the terminal editor, or an empty canvas when no file is
given. Elements are dragged from the palette on the right; wires are drawn
by dragging from port to port.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, cfgPath := appConfig, appConfigPath
	log, closeLog, err := openLogger(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	var cb clipboard.Clipboard = clipboard.NewMemory()
	if clipboard.Available() {
		cb = clipboard.NewSystem()
	} else {
		log.Info("system clipboard unavailable, using in-memory clipboard")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	ed := NewEditor(screen, cfg, log, cb)
	ed.cfgPath = cfgPath
	log.Info("editor started", "session", ed.session.ID())

	if len(args) > 0 {
		if err := ed.loadFile(args[0]); err != nil {
			ed.showMessage("Failed to load: "+err.Error(), MsgError)
			ed.filename = args[0]
		}
	} else {
		ed.showMessage("F1 for help", MsgInfo)
	}

	ed.run()
	return nil
}
