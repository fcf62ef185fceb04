// Package main is an interactive SDL2 previewer for tilesets.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tilekit/internal/assets"
	"github.com/Faultbox/tilekit/internal/config"
	"github.com/Faultbox/tilekit/internal/engine/camera"
	"github.com/Faultbox/tilekit/internal/engine/debug"
	"github.com/Faultbox/tilekit/internal/engine/input"
	"github.com/Faultbox/tilekit/internal/engine/scene"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
	"github.com/Faultbox/tilekit/internal/engine/tileset"
	"github.com/Faultbox/tilekit/internal/engine/window"
	"github.com/Faultbox/tilekit/internal/logger"
)

const (
	windowTitle = "Tileset Viewer"
	panSpeed    = 160 // Map pixels per second
	fastPan     = 4
	frameTime   = time.Second / 60
)

func main() {
	config.ParseFlags()
	args := flag.Args()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	id := optionalArg(args, 0)
	if id == "" {
		root, picked, err := pickTileset(cfg.Data.Root)
		if err != nil {
			if err != dialog.ErrCancelled {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "Usage: tilesetviewer [-config file] [-data dir] [-scale n] [-debug] [id] [variant]")
				os.Exit(1)
			}
			return
		}
		cfg.Data.Root, id = root, picked
	}

	if err := run(cfg, id, optionalArg(args, 1)); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// pickTileset asks for a tileset data file and returns its data root and id.
func pickTileset(startDir string) (root, id string, err error) {
	filename, err := dialog.File().
		Filter("Tileset data", "dat").
		Filter("All Files", "*").
		Title("Open Tileset").
		SetStartDir(filepath.Join(startDir, tileset.Dir)).
		Load()
	if err != nil {
		return "", "", err
	}

	root, id, ok := tileset.SplitDataFile(filename)
	if !ok {
		return "", "", fmt.Errorf("%s is not a tileset data file under a %s directory", filename, tileset.Dir)
	}
	logger.Info("tileset picked", zap.String("root", root), zap.String("tileset", id))
	return root, id, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// viewer holds the state of the preview loop.
type viewer struct {
	win      *window.Window
	ts       *tileset.Tileset
	scene    *scene.Scene
	camera   *camera.Camera
	overlays scene.Overlay
	variant  string
	shots    *debug.ScreenshotCapture
}

func run(cfg *config.Config, id, variant string) error {
	files, err := assets.Mount(cfg.Data.Root, cfg.Data.Archives)
	if err != nil {
		return err
	}
	defer files.Close()

	lib := tileset.NewLibrary(files, cfg.Timing())
	ts, err := lib.Load(id)
	if err != nil {
		return err
	}
	defer ts.Unload()

	logger.Info("tileset opened",
		zap.String("tileset", ts.ID()),
		zap.Int("patterns", ts.NumPatterns()),
		zap.String("variant", variant))

	winCfg := window.Config{
		Title:  fmt.Sprintf("%s - %s", windowTitle, ts.ID()),
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
		Scale:  cfg.Viewer.Scale,
		VSync:  cfg.Viewer.VSync,
	}
	win, err := window.New(winCfg)
	if err != nil {
		return err
	}
	defer win.Close()

	v := &viewer{
		win:     win,
		ts:      ts,
		scene:   scene.New(ts, scene.Config{Padding: scene.DefaultPadding}),
		camera:  camera.New(panSpeed),
		variant: variant,
		shots:   debug.NewScreenshotCapture("screenshots", ts.ID()),
	}

	frameSize := winCfg.FrameSize()
	v.camera.SetBounds(cameraBounds(v.scene.Bounds(), frameSize))
	frame := image.NewRGBA(image.Rectangle{Max: frameSize})

	in := input.New()
	start := time.Now()
	last := start

	for {
		if in.Update() {
			return nil
		}

		for _, e := range in.Events() {
			switch e.Type {
			case input.EventKeyDown:
				if quit := v.handleKey(e.Key, frame.Rect.Size()); quit {
					return nil
				}
			case input.EventWindowResize:
				logger.Debug("window resized", zap.Int("width", e.Width), zap.Int("height", e.Height))
			}
		}

		now := time.Now()
		dt := now.Sub(last)
		if in.IsKeyDown(sdl.SCANCODE_LSHIFT) || in.IsKeyDown(sdl.SCANCODE_RSHIFT) {
			dt *= fastPan
		}
		v.camera.Move(
			in.Axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT),
			in.Axis(sdl.SCANCODE_UP, sdl.SCANCODE_DOWN),
			dt)
		last = now

		v.scene.Render(frame, tilepattern.View{Camera: v.camera.Position(), Time: now.Sub(start)}, v.overlays)
		if err := win.Present(frame); err != nil {
			return err
		}

		if in.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot(frame)
		}

		if !cfg.Viewer.VSync {
			if elapsed := time.Since(now); elapsed < frameTime {
				time.Sleep(frameTime - elapsed)
			}
		}
	}
}

// handleKey reacts to a key press. Returns true to quit.
func (v *viewer) handleKey(key sdl.Scancode, frame image.Point) bool {
	switch key {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		return true
	case sdl.SCANCODE_V:
		v.toggleImages()
	case sdl.SCANCODE_G:
		v.overlays ^= scene.OverlayGrounds
	case sdl.SCANCODE_O:
		v.overlays ^= scene.OverlayOutlines
	case sdl.SCANCODE_H:
		v.overlays ^= scene.OverlayGrid
	case sdl.SCANCODE_HOME:
		v.camera.SetPosition(image.Point{})
	case sdl.SCANCODE_I:
		v.inspect(v.camera.Position().Add(frame.Div(2)))
	}
	return false
}

// inspect logs the pattern under the scene point p.
func (v *viewer) inspect(p image.Point) {
	it, ok := v.scene.At(p)
	if !ok {
		logger.Info("no pattern here", zap.Int("x", p.X), zap.Int("y", p.Y))
		return
	}
	pat := v.ts.TilePattern(it.ID)
	logger.Info("pattern",
		zap.String("id", it.ID),
		zap.Stringer("ground", pat.Ground()),
		zap.Int("layer", pat.DefaultLayer()),
		zap.Stringer("scrolling", pat.Scrolling()),
		zap.Bool("animated", pat.IsAnimated()),
		zap.Stringer("source", pat.SourceRect(0)))
}

func (v *viewer) screenshot(frame *image.RGBA) {
	path, err := v.shots.CaptureFromImage(frame)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// toggleImages swaps between the tileset's own atlases and the variant's.
func (v *viewer) toggleImages() {
	if v.variant == "" {
		logger.Info("no image variant given")
		return
	}

	target := v.variant
	if v.ts.ImagesID() == v.variant {
		target = v.ts.ID()
	}
	if err := v.ts.SetImages(target); err != nil {
		logger.Warn("switching images failed", zap.String("images", target), zap.Error(err))
		return
	}
	v.win.SetTitle(fmt.Sprintf("%s - %s [%s]", windowTitle, v.ts.ID(), target))
	logger.Info("images switched", zap.String("images", target))
}

// cameraBounds keeps the scene on screen while panning.
func cameraBounds(sceneBounds image.Rectangle, frame image.Point) image.Rectangle {
	maxX := max(sceneBounds.Dx()-frame.X, 0)
	maxY := max(sceneBounds.Dy()-frame.Y, 0)
	return image.Rect(0, 0, maxX, maxY)
}
