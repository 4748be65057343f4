package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/gridview"
	"github.com/akmonengine/gridview/camera"
	"github.com/akmonengine/gridview/internal/config"
	"github.com/akmonengine/gridview/internal/logging"
	"github.com/akmonengine/gridview/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// game hosts the viewer in an ebiten window
type game struct {
	viewer  *gridview.Viewer
	batch   *render.PrimitiveBatch
	backend *screenBackend
	logger  *zap.Logger
}

func newGame(cfg config.Config, logger *zap.Logger) *game {
	viewport := camera.NewViewport(cfg.Window.Width, cfg.Window.Height)
	backend := &screenBackend{}

	g := &game{
		viewer:  gridview.NewViewer(cfg.ViewerSettings(), viewport, logger),
		batch:   render.NewPrimitiveBatch(backend, render.DefaultCapacity),
		backend: backend,
		logger:  logger,
	}

	g.viewer.Events.Subscribe(gridview.BOX_ENTER, func(event gridview.Event) {
		logger.Debug("box entered", zap.Any("point", event.(gridview.BoxEnterEvent).Point))
	})
	g.viewer.Events.Subscribe(gridview.BOX_EXIT, func(event gridview.Event) {
		logger.Debug("box exited", zap.Any("point", event.(gridview.BoxExitEvent).Point))
	})
	g.viewer.Events.Subscribe(gridview.GRID_SIZE_CHANGED, func(event gridview.Event) {
		e := event.(gridview.GridSizeChangedEvent)
		logger.Info("grid size", zap.Int("previous", e.Previous), zap.Int("current", e.Current))
	})

	return g
}

func pollInput() gridview.Input {
	x, y := ebiten.CursorPosition()
	in := gridview.Input{
		Mouse: mgl64.Vec2{float64(x), float64(y)},
		Dt:    1 / float64(ebiten.TPS()),
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		in.Buttons |= gridview.MouseLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		in.Buttons |= gridview.MouseRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		in.Buttons |= gridview.MouseMiddle
	}

	held := map[ebiten.Key]gridview.Key{
		ebiten.KeyW:         gridview.KeyForward,
		ebiten.KeyS:         gridview.KeyBackward,
		ebiten.KeyA:         gridview.KeyLeft,
		ebiten.KeyD:         gridview.KeyRight,
		ebiten.KeyShiftLeft: gridview.KeyFast,
	}
	for key, k := range held {
		if ebiten.IsKeyPressed(key) {
			in.Down = in.Down.With(k)
		}
	}

	pressed := map[ebiten.Key]gridview.Key{
		ebiten.KeyBracketRight:   gridview.KeyGridIncrease,
		ebiten.KeyNumpadAdd:      gridview.KeyGridIncrease,
		ebiten.KeyBracketLeft:    gridview.KeyGridDecrease,
		ebiten.KeyNumpadSubtract: gridview.KeyGridDecrease,
	}
	for key, k := range pressed {
		if inpututil.IsKeyJustPressed(key) {
			in.Pressed = in.Pressed.With(k)
		}
	}

	return in
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.viewer.Update(pollInput())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.viewer.Settings.ClearColor)

	g.backend.target = screen
	if err := g.viewer.Draw(g.batch); err != nil {
		g.logger.Error("draw", zap.Error(err))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.viewer.Resize(camera.NewViewport(outsideWidth, outsideHeight))
	return outsideWidth, outsideHeight
}

func run(configPath string, flags config.Flags) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("grid max size", cfg.Grid.MaxSize))

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(newGame(cfg, logger)); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("viewer: %w", err)
	}

	logger.Info("viewer closed")
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	var flags config.Flags
	flag.StringVar(&flags.LogLevel, "log", "", "log level (debug, info, warn, error)")
	flag.IntVar(&flags.Width, "width", 0, "window width")
	flag.IntVar(&flags.Height, "height", 0, "window height")
	flag.Parse()

	if err := run(*configPath, flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
