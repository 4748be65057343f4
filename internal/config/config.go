// Package config loads the viewer and snapshot settings from YAML, with command line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"runtime"

	"github.com/akmonengine/gridview"
	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds all configurable settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Grid     GridConfig     `yaml:"grid"`
	Box      BoxConfig      `yaml:"box"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

type WindowConfig struct {
	Title      string   `yaml:"title"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	ClearColor [3]uint8 `yaml:"clear_color"`
}

type CameraConfig struct {
	FOV             float64 `yaml:"fov"`
	Near            float64 `yaml:"near"`
	Far             float64 `yaml:"far"`
	MoveSpeed       float64 `yaml:"move_speed"`
	FastMoveSpeed   float64 `yaml:"fast_move_speed"`
	LookSensitivity float64 `yaml:"look_sensitivity"`
}

type GridConfig struct {
	MaxSize        int `yaml:"max_size"`
	CellSize       int `yaml:"cell_size"`
	MajorLineEvery int `yaml:"major_line_every"`
	HideLinesLower int `yaml:"hide_lines_lower"`
}

type BoxConfig struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// SnapshotConfig drives the headless renderer: Frames images orbiting the box
type SnapshotConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Frames      int    `yaml:"frames"`
	// 0 uses one worker per CPU
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	LogLevel  string
	OutputDir string
	Width     int
	Height    int
	Frames    int
	Workers   int
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:      "gridview",
			Width:      1280,
			Height:     720,
			ClearColor: [3]uint8{32, 32, 32},
		},
		Camera: CameraConfig{
			FOV:             70,
			Near:            0.1,
			Far:             8192,
			MoveSpeed:       50,
			FastMoveSpeed:   100,
			LookSensitivity: 10,
		},
		Grid: GridConfig{
			MaxSize:        128,
			CellSize:       1,
			MajorLineEvery: 8,
			HideLinesLower: 2,
		},
		Box: BoxConfig{
			Min: [3]float64{-32, 0, -32},
			Max: [3]float64{32, 8, 32},
		},
		Snapshot: SnapshotConfig{
			OutputDir:   "snapshots",
			Width:       640,
			Height:      480,
			Supersample: 2,
			Frames:      8,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file. Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := LoadYAML(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadYAML decodes a YAML document onto the defaults. Unknown fields are rejected.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve applies the CLI flags, which take priority when non-zero/non-empty,
// then fills the settings left to auto-detection.
func (c *Config) Resolve(flags Flags) {
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.OutputDir != "" {
		c.Snapshot.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Window.Width = flags.Width
		c.Snapshot.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Window.Height = flags.Height
		c.Snapshot.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Snapshot.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Snapshot.Workers = flags.Workers
	}

	if c.Snapshot.Workers <= 0 {
		c.Snapshot.Workers = runtime.NumCPU()
	}
}

// Validate reports every invalid setting
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0, "window.width must be positive, got %d", c.Window.Width)
	check(c.Window.Height > 0, "window.height must be positive, got %d", c.Window.Height)

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %g", c.Camera.FOV)
	check(c.Camera.Near > 0, "camera.near must be positive, got %g", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera.far must be greater than camera.near, got %g", c.Camera.Far)
	check(c.Camera.MoveSpeed >= 0, "camera.move_speed must not be negative, got %g", c.Camera.MoveSpeed)
	check(c.Camera.FastMoveSpeed >= 0, "camera.fast_move_speed must not be negative, got %g", c.Camera.FastMoveSpeed)
	check(c.Camera.LookSensitivity >= 0, "camera.look_sensitivity must not be negative, got %g", c.Camera.LookSensitivity)

	check(c.Grid.MaxSize >= 1, "grid.max_size must be at least 1, got %d", c.Grid.MaxSize)
	check(c.Grid.CellSize >= 1 && c.Grid.CellSize <= c.Grid.MaxSize,
		"grid.cell_size must be in [1, grid.max_size], got %d", c.Grid.CellSize)
	check(c.Grid.MajorLineEvery >= 1, "grid.major_line_every must be at least 1, got %d", c.Grid.MajorLineEvery)
	check(c.Grid.HideLinesLower >= 1, "grid.hide_lines_lower must be at least 1, got %d", c.Grid.HideLinesLower)

	for axis, name := range []string{"x", "y", "z"} {
		check(c.Box.Min[axis] <= c.Box.Max[axis], "box.min.%s must not exceed box.max.%s", name, name)
	}

	check(c.Snapshot.Width > 0, "snapshot.width must be positive, got %d", c.Snapshot.Width)
	check(c.Snapshot.Height > 0, "snapshot.height must be positive, got %d", c.Snapshot.Height)
	check(c.Snapshot.Supersample >= 1, "snapshot.supersample must be at least 1, got %d", c.Snapshot.Supersample)
	check(c.Snapshot.Frames >= 1, "snapshot.frames must be at least 1, got %d", c.Snapshot.Frames)
	check(c.Snapshot.Workers >= 0, "snapshot.workers must not be negative, got %d", c.Snapshot.Workers)

	_, err := zapcore.ParseLevel(c.Log.Level)
	check(err == nil, "log.level %q is unknown", c.Log.Level)

	return errors.Join(errs...)
}

// ViewerSettings converts the config to the settings of a gridview.Viewer
func (c Config) ViewerSettings() gridview.ViewerSettings {
	settings := gridview.DefaultViewerSettings()

	settings.FOV = c.Camera.FOV
	settings.Near = c.Camera.Near
	settings.Far = c.Camera.Far
	settings.MoveSpeed = c.Camera.MoveSpeed
	settings.FastMoveSpeed = c.Camera.FastMoveSpeed
	settings.LookSensitivity = c.Camera.LookSensitivity

	settings.Box = geometry.NewAABBFromPoints(mgl64.Vec3(c.Box.Min), mgl64.Vec3(c.Box.Max))

	settings.Grid.MaxSize = c.Grid.MaxSize
	settings.Grid.CellSize = c.Grid.CellSize
	settings.Grid.MajorLineEvery = c.Grid.MajorLineEvery
	settings.Grid.HideLinesLower = c.Grid.HideLinesLower

	settings.ClearColor = color.NRGBA{R: c.Window.ClearColor[0], G: c.Window.ClearColor[1], B: c.Window.ClearColor[2], A: 255}

	return settings
}
