package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "cognitheon"

// Config holds editor configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Graph   GraphConfig   `toml:"graph"`
	History HistoryConfig `toml:"history"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// CanvasConfig controls navigation and drawing.
type CanvasConfig struct {
	MinZoom         float64 `toml:"min_zoom"`
	MaxZoom         float64 `toml:"max_zoom"`
	WheelZoomStep   float64 `toml:"wheel_zoom_step"`
	KeyPanStep      float64 `toml:"key_pan_step"`
	PanModifier     string  `toml:"pan_modifier"` // "alt", "ctrl", "shift"
	BezierFraction  float64 `toml:"bezier_fraction"`
	DefaultEdgeType string  `toml:"default_edge_type"`
	AnchorSize      float64 `toml:"anchor_size"`
	FrameRate       int     `toml:"frame_rate"`
}

type GraphConfig struct {
	AllowSelfLoops     bool `toml:"allow_self_loops"`
	AllowParallelEdges bool `toml:"allow_parallel_edges"`
}

type HistoryConfig struct {
	Depth int `toml:"depth"`
}

type StorageConfig struct {
	SaveDirectory string `toml:"save_directory"`
	LibraryPath   string `toml:"library_path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text", "json"
	File   string `toml:"file"`
}

type UIConfig struct {
	ConfirmQuit bool `toml:"confirm_quit"`
	Color       bool `toml:"color"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			MinZoom:         defaultMinZoom,
			MaxZoom:         defaultMaxZoom,
			WheelZoomStep:   1.1,
			KeyPanStep:      4,
			PanModifier:     "alt",
			BezierFraction:  defaultBezierFraction,
			DefaultEdgeType: "line",
			AnchorSize:      0.5,
			FrameRate:       30,
		},
		Graph:   GraphConfig{AllowSelfLoops: false, AllowParallelEdges: true},
		History: HistoryConfig{Depth: defaultHistoryDepth},
		Storage: StorageConfig{LibraryPath: filepath.Join(dataDir(), "library.db")},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(stateDir(), appName+".log"),
		},
		UI: UIConfig{ConfirmQuit: true, Color: true},
	}
}

// ConfigDir returns the config directory.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

func dataDir() string  { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }
func stateDir() string { return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")) }

func xdgDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, appName)
}

// LoadConfig overlays the file at path on the defaults. A missing file is not
// an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) normalize() {
	if c.Canvas.MinZoom <= 0 || c.Canvas.MaxZoom < c.Canvas.MinZoom {
		c.Canvas.MinZoom, c.Canvas.MaxZoom = defaultMinZoom, defaultMaxZoom
	}
	if c.Canvas.WheelZoomStep <= 1 {
		c.Canvas.WheelZoomStep = 1.1
	}
	if c.Canvas.KeyPanStep <= 0 {
		c.Canvas.KeyPanStep = 4
	}
	if c.Canvas.BezierFraction <= 0 {
		c.Canvas.BezierFraction = defaultBezierFraction
	}
	if c.Canvas.AnchorSize <= 0 {
		c.Canvas.AnchorSize = 0.5
	}
	if c.Canvas.FrameRate <= 0 {
		c.Canvas.FrameRate = 30
	}
	if c.History.Depth <= 0 {
		c.History.Depth = defaultHistoryDepth
	}
	c.Storage.SaveDirectory = expandHome(c.Storage.SaveDirectory)
	c.Storage.LibraryPath = expandHome(c.Storage.LibraryPath)
	c.Log.File = expandHome(c.Log.File)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// GraphOptions returns the graph rules the config selects.
func (c *Config) GraphOptions() []GraphOption {
	return []GraphOption{
		WithSelfLoops(c.Graph.AllowSelfLoops),
		WithParallelEdges(c.Graph.AllowParallelEdges),
	}
}

// NewGraph returns an empty graph with the configured rules and edge type.
func (c *Config) NewGraph() *Graph {
	g := NewGraph(c.GraphOptions()...)
	if t, err := ParseEdgeType(c.Canvas.DefaultEdgeType); err == nil {
		g.EdgeType = t
	}
	return g
}

// View returns the identity transform with the configured zoom range.
func (c *Config) View() Transform {
	return IdentityTransform().WithBounds(c.Canvas.MinZoom, c.Canvas.MaxZoom)
}

// WidgetOptions returns the gesture tuning the config selects.
func (c *Config) WidgetOptions() WidgetOptions {
	mod, err := ParseModifier(c.Canvas.PanModifier)
	if err != nil {
		mod = ModAlt
	}
	return WidgetOptions{
		PanModifier:    mod,
		AnchorSize:     c.Canvas.AnchorSize,
		BezierFraction: c.Canvas.BezierFraction,
	}
}

// GetSavePath resolves filename against the save directory, adding the
// document extension when it has none.
func (c *Config) GetSavePath(filename string) string {
	if filepath.Ext(filename) == "" {
		filename += documentExt
	}
	if c.Storage.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.Storage.SaveDirectory, 0o755)
	return filepath.Join(c.Storage.SaveDirectory, filename)
}
