// Package window handles the SDL2 window and 2D renderer of the viewer.
package window

import (
	"fmt"
	"image"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tilekit/internal/logger"
)

func init() {
	// SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int // Window size in screen pixels
	Height int
	Scale  int // Screen pixels per frame pixel
	VSync  bool
}

// FrameSize returns the size of the frames presented in the window.
func (c Config) FrameSize() image.Point {
	scale := max(c.Scale, 1)
	return image.Pt(max(c.Width/scale, 1), max(c.Height/scale, 1))
}

// Window wraps an SDL2 window, its renderer and the streaming texture
// frames are uploaded to.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	texSize   image.Point
}

// New creates a new window.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Pixel art: no smoothing when scaling frames up
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE),
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= uint32(sdl.RENDERER_PRESENTVSYNC)
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, flags)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("scale", cfg.Scale),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Present uploads frame and shows it, scaled to fill the window.
func (w *Window) Present(frame *image.RGBA) error {
	size := frame.Bounds().Size()
	if w.texture == nil || size != w.texSize {
		if err := w.resizeTexture(size); err != nil {
			return err
		}
	}

	pixels, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("SDL_LockTexture failed: %w", err)
	}
	rowSize := size.X * 4
	for y := 0; y < size.Y; y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+rowSize]
		copy(pixels[y*pitch:y*pitch+rowSize], src)
	}
	w.texture.Unlock()

	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("SDL_RenderClear failed: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("SDL_RenderCopy failed: %w", err)
	}
	w.renderer.Present()
	return nil
}

// resizeTexture recreates the streaming texture for frames of the given size.
func (w *Window) resizeTexture(size image.Point) error {
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}

	// ABGR8888 is R, G, B, A in memory on little-endian machines, the
	// layout of image.RGBA
	tex, err := w.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), sdl.TEXTUREACCESS_STREAMING, int32(size.X), int32(size.Y))
	if err != nil {
		return fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	if err := w.renderer.SetLogicalSize(int32(size.X), int32(size.Y)); err != nil {
		tex.Destroy()
		return fmt.Errorf("SDL_RenderSetLogicalSize failed: %w", err)
	}

	w.texture = tex
	w.texSize = size
	logger.Debug("frame texture created", zap.Int("width", size.X), zap.Int("height", size.Y))
	return nil
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
