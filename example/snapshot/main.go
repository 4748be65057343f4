package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/akmonengine/gridview"
	"github.com/akmonengine/gridview/camera"
	"github.com/akmonengine/gridview/internal/config"
	"github.com/akmonengine/gridview/internal/logging"
	"github.com/akmonengine/gridview/render"
	"github.com/akmonengine/gridview/render/raster"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// renderFrame renders the viewer orbiting the box by angle degrees, with the mouse at the center of the screen
func renderFrame(cfg config.Config, angle float64, logger *zap.Logger) (*image.NRGBA, error) {
	ss := cfg.Snapshot.Supersample
	viewport := camera.NewViewport(cfg.Snapshot.Width*ss, cfg.Snapshot.Height*ss)
	settings := cfg.ViewerSettings()

	v := gridview.NewViewer(settings, viewport, logger)

	// orbit around the vertical axis through the box center
	center := settings.Box.Center()
	orbit := mgl64.QuatRotate(mgl64.DegToRad(angle), camera.Up)
	v.Camera.SetPosition(center.Add(orbit.Rotate(v.Camera.Position().Sub(center))))
	v.Camera.Rotate(camera.Up, angle)

	v.Update(gridview.Input{Mouse: mgl64.Vec2{float64(viewport.Width) / 2, float64(viewport.Height) / 2}})

	canvas := raster.NewCanvas(viewport.Width, viewport.Height)
	canvas.Clear(settings.ClearColor)
	if err := v.Draw(render.NewPrimitiveBatch(canvas, render.DefaultCapacity)); err != nil {
		return nil, fmt.Errorf("snapshot: draw: %w", err)
	}

	img := canvas.Image
	if ss > 1 {
		img = downsample(img, cfg.Snapshot.Width, cfg.Snapshot.Height)
	}
	return img, nil
}

// downsample reduces the supersampled frame with CatmullRom filtering
func downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return f.Close()
}

// run renders every orbit frame, Workers at a time, and writes them as WebP files
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := os.MkdirAll(cfg.Snapshot.OutputDir, 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	start := time.Now()
	var written atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(cfg.Snapshot.Workers, 1))

	for i := 0; i < cfg.Snapshot.Frames; i++ {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			angle := 360 * float64(i) / float64(cfg.Snapshot.Frames)
			frameLogger := logger.With(zap.Int("frame", i))

			img, err := renderFrame(cfg, angle, frameLogger)
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.Snapshot.OutputDir, fmt.Sprintf("frame_%03d.webp", i))
			if err := writeWebP(path, img); err != nil {
				return err
			}

			written.Add(1)
			frameLogger.Debug("frame written", zap.String("path", path), zap.Float64("angle", angle))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info("snapshots written",
		zap.Int64("frames", written.Load()),
		zap.String("dir", cfg.Snapshot.OutputDir),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	var flags config.Flags
	flag.StringVar(&flags.LogLevel, "log", "", "log level (debug, info, warn, error)")
	flag.StringVar(&flags.OutputDir, "out", "", "output directory")
	flag.IntVar(&flags.Width, "width", 0, "image width")
	flag.IntVar(&flags.Height, "height", 0, "image height")
	flag.IntVar(&flags.Frames, "frames", 0, "number of orbit frames")
	flag.IntVar(&flags.Workers, "workers", 0, "frames rendered in parallel (0 = CPU count)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("rendering snapshots",
		zap.Int("frames", cfg.Snapshot.Frames),
		zap.Int("workers", cfg.Snapshot.Workers),
		zap.Int("supersample", cfg.Snapshot.Supersample))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
