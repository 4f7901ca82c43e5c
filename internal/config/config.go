// Package config loads and saves the editor configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds persistent editor settings.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	UI     UIConfig     `toml:"ui"`
	Files  FilesConfig  `toml:"files"`
}

// EditorConfig controls gesture handling.
type EditorConfig struct {
	HitTolerance     float64 `toml:"hit_tolerance"`
	AutoScrollMillis int     `toml:"autoscroll_ms"`
	UndoLimit        int     `toml:"undo_limit"`
	PasteOffset      float64 `toml:"paste_offset"`
	IconSize         float64 `toml:"icon_size"`
	SceneMargin      float64 `toml:"scene_margin"`
	PreviewPadding   float64 `toml:"preview_padding"`
	PreviewOpacity   float64 `toml:"preview_opacity"`
	ShowWires        bool    `toml:"show_wires"`
	ShowGates        bool    `toml:"show_gates"`
	ClockPeriod      int     `toml:"clock_period"`
}

// UIConfig controls the terminal host.
type UIConfig struct {
	SidebarWidth int  `toml:"sidebar_width"`
	Color        bool `toml:"color"`
	// CellWidth and CellHeight are the scene units covered by one terminal cell.
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	TickMillis int     `toml:"tick_ms"`
}

// FilesConfig remembers file locations.
type FilesConfig struct {
	LastDir string `toml:"last_dir"`
}

// Default returns the default configuration.
func Default() *Config {
	cwd, _ := os.Getwd()
	return &Config{
		Editor: EditorConfig{
			HitTolerance:     9,
			AutoScrollMillis: 100,
			UndoLimit:        50,
			PasteOffset:      32,
			IconSize:         64,
			SceneMargin:      10,
			PreviewPadding:   8,
			PreviewOpacity:   0.25,
			ShowWires:        true,
			ShowGates:        true,
			ClockPeriod:      10,
		},
		UI: UIConfig{
			SidebarWidth: 24,
			Color:        true,
			CellWidth:    8,
			CellHeight:   16,
			TickMillis:   50,
		},
		Files: FilesConfig{LastDir: cwd},
	}
}

// AutoScrollInterval returns the auto-scroll throttle as a duration.
func (c EditorConfig) AutoScrollInterval() time.Duration {
	return time.Duration(c.AutoScrollMillis) * time.Millisecond
}

// Tick returns the simulation tick interval of the terminal host.
func (c UIConfig) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// Dir returns the wiredit config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".wiredit"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wiredit")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the editor cannot work with.
func (c *Config) Validate() error {
	e := c.Editor
	switch {
	case e.HitTolerance <= 0:
		return fmt.Errorf("editor.hit_tolerance must be positive, got %g", e.HitTolerance)
	case e.AutoScrollMillis < 0:
		return fmt.Errorf("editor.autoscroll_ms must not be negative, got %d", e.AutoScrollMillis)
	case e.UndoLimit <= 0:
		return fmt.Errorf("editor.undo_limit must be positive, got %d", e.UndoLimit)
	case e.PreviewOpacity < 0 || e.PreviewOpacity > 1:
		return fmt.Errorf("editor.preview_opacity must be within 0..1, got %g", e.PreviewOpacity)
	case c.UI.CellWidth <= 0 || c.UI.CellHeight <= 0:
		return fmt.Errorf("ui.cell_width and ui.cell_height must be positive")
	}
	return nil
}

// Save writes the config to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
