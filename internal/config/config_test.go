package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Run("empty document keeps the defaults", func(t *testing.T) {
		cfg, err := LoadYAML(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("fields merge onto the defaults", func(t *testing.T) {
		cfg, err := LoadYAML(strings.NewReader(`
camera:
  fov: 90
grid:
  max_size: 64
box:
  min: [-8, 0, -8]
  max: [8, 4, 8]
`))
		require.NoError(t, err)

		assert.Equal(t, 90.0, cfg.Camera.FOV)
		assert.Equal(t, 0.1, cfg.Camera.Near)
		assert.Equal(t, 64, cfg.Grid.MaxSize)
		assert.Equal(t, 1, cfg.Grid.CellSize)
		assert.Equal(t, [3]float64{-8, 0, -8}, cfg.Box.Min)
		assert.Equal(t, [3]float64{8, 4, 8}, cfg.Box.Max)
		assert.Equal(t, Default().Window, cfg.Window)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("camera:\n  zoom: 2\n"))
		assert.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("camera: [1, 2"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "config: read")
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridview.yaml")
		require.NoError(t, os.WriteFile(path, []byte("window: 12\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: parse")
	})
}

func TestResolve(t *testing.T) {
	t.Run("flags override", func(t *testing.T) {
		cfg := Default()
		cfg.Resolve(Flags{LogLevel: "warn", OutputDir: "out", Width: 320, Height: 200, Frames: 3, Workers: 2})

		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "out", cfg.Snapshot.OutputDir)
		assert.Equal(t, 320, cfg.Window.Width)
		assert.Equal(t, 320, cfg.Snapshot.Width)
		assert.Equal(t, 200, cfg.Window.Height)
		assert.Equal(t, 200, cfg.Snapshot.Height)
		assert.Equal(t, 3, cfg.Snapshot.Frames)
		assert.Equal(t, 2, cfg.Snapshot.Workers)
	})

	t.Run("zero flags keep the config", func(t *testing.T) {
		cfg := Default()
		cfg.Snapshot.Workers = 5
		cfg.Resolve(Flags{})

		want := Default()
		want.Snapshot.Workers = 5
		assert.Equal(t, want, cfg)
	})

	t.Run("workers default to the CPU count", func(t *testing.T) {
		cfg := Default()
		cfg.Resolve(Flags{})
		assert.Equal(t, runtime.NumCPU(), cfg.Snapshot.Workers)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window.width"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window.height"},
		{"flat fov", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }, "camera.near"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "camera.far"},
		{"negative speed", func(c *Config) { c.Camera.MoveSpeed = -1 }, "camera.move_speed"},
		{"zero max size", func(c *Config) { c.Grid.MaxSize = 0 }, "grid.max_size"},
		{"cell larger than max", func(c *Config) { c.Grid.CellSize = 256 }, "grid.cell_size"},
		{"no major lines", func(c *Config) { c.Grid.MajorLineEvery = 0 }, "grid.major_line_every"},
		{"inverted box", func(c *Config) { c.Box.Min[1] = 10 }, "box.min.y"},
		{"zero supersample", func(c *Config) { c.Snapshot.Supersample = 0 }, "snapshot.supersample"},
		{"zero frames", func(c *Config) { c.Snapshot.Frames = 0 }, "snapshot.frames"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ReportsEveryError(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Snapshot.Frames = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.width")
	assert.Contains(t, err.Error(), "snapshot.frames")
}

func TestViewerSettings(t *testing.T) {
	cfg := Default()
	cfg.Camera.FOV = 60
	cfg.Grid.MaxSize = 64
	cfg.Box.Min = [3]float64{-4, 0, -4}
	cfg.Box.Max = [3]float64{4, 2, 4}
	cfg.Window.ClearColor = [3]uint8{1, 2, 3}

	settings := cfg.ViewerSettings()

	assert.Equal(t, 60.0, settings.FOV)
	assert.Equal(t, 64, settings.Grid.MaxSize)
	assert.Equal(t, mgl64.Vec3{-4, 0, -4}, settings.Box.Min)
	assert.Equal(t, mgl64.Vec3{4, 2, 4}, settings.Box.Max)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, settings.ClearColor)
}

func TestViewerSettings_DefaultsMatchTheViewer(t *testing.T) {
	settings := Default().ViewerSettings()

	assert.Equal(t, 70.0, settings.FOV)
	assert.Equal(t, 8192.0, settings.Far)
	assert.Equal(t, mgl64.Vec3{-32, 0, -32}, settings.Box.Min)
	assert.Equal(t, mgl64.Vec3{32, 8, 32}, settings.Box.Max)
	assert.Equal(t, 128, settings.Grid.MaxSize)
}
