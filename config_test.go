package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[canvas]
max_zoom = 4.0
pan_modifier = "ctrl"
default_edge_type = "bezier"

[graph]
allow_self_loops = true

[history]
depth = -1
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Canvas.MaxZoom)
	assert.Equal(t, defaultMinZoom, cfg.Canvas.MinZoom, "unset keys keep defaults")
	assert.Equal(t, 1.1, cfg.Canvas.WheelZoomStep)
	assert.Equal(t, defaultHistoryDepth, cfg.History.Depth, "invalid values are normalized")
	assert.True(t, cfg.Graph.AllowParallelEdges)

	assert.Equal(t, ModCtrl, cfg.WidgetOptions().PanModifier)

	g := cfg.NewGraph()
	assert.Equal(t, EdgeBezier, g.EdgeType)
	x := g.AddNode(NewNode(Vec2{}, "x"))
	_, err = g.AddEdge(x, x, EdgeLine)
	assert.NoError(t, err)

	min, max := cfg.View().Bounds()
	assert.Equal(t, defaultMinZoom, min)
	assert.Equal(t, 4.0, max)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas\n"), 0o644))
	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Canvas.FrameRate = 60
	cfg.Log.Format = "json"
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfig_GetSavePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "diagram.cnt", cfg.GetSavePath("diagram"))
	assert.Equal(t, "notes.json", cfg.GetSavePath("notes.json"))

	dir := filepath.Join(t.TempDir(), "saves")
	cfg.Storage.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "diagram.cnt"), cfg.GetSavePath("diagram"))
	assert.DirExists(t, dir)
	assert.Equal(t, "/abs/file.cnt", cfg.GetSavePath("/abs/file.cnt"))
}

func TestConfig_XDGDirs(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	assert.Equal(t, filepath.Join(base, appName, "config.toml"), ConfigPath())
}
