// tilesettool is a CLI utility for inspecting and rendering tilesets.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/internal/assets"
	"github.com/Faultbox/tilekit/internal/config"
	"github.com/Faultbox/tilekit/internal/engine/scene"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
	"github.com/Faultbox/tilekit/internal/engine/tileset"
	"github.com/Faultbox/tilekit/internal/logger"
	"github.com/Faultbox/tilekit/pkg/formats"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "list", "ls":
		cmdList(cfg, args)
	case "check":
		cmdCheck(cfg, args)
	case "render":
		cmdRender(cfg, args)
	case "sheet":
		cmdSheet(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tilesettool - tileset inspection utility

Usage:
  tilesettool [-config file] [-data dir] [-debug] <command> [options]

Commands:
  info <id>                          Show tileset information
  list <id> [pattern]                List tile patterns (optional glob pattern)
  check [id...]                      Load tilesets and report errors (all if none given)
  render <id> <pattern> <out.png>    Render one tile pattern
  sheet <id> <out.png>               Render every tile pattern on one sheet
  config [path]                      Write the current configuration

Examples:
  tilesettool info village
  tilesettool list village "water_*"
  tilesettool -data ./data check
  tilesettool render -scale 4 -t 500ms village water_edge_nw water.png`)
}

// openLibrary mounts the configured data and returns a tileset library.
func openLibrary(cfg *config.Config) (*assets.Manager, *tileset.Library) {
	files, err := assets.Mount(cfg.Data.Root, cfg.Data.Archives)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("data mounted", zap.Strings("sources", files.Sources()))
	return files, tileset.NewLibrary(files, cfg.Timing())
}

func mustLoad(lib *tileset.Library, id string) *tileset.Tileset {
	ts, err := lib.Load(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return ts
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilesettool info <id>")
		os.Exit(1)
	}

	files, lib := openLibrary(cfg)
	defer files.Close()

	ts := mustLoad(lib, args[0])
	defer ts.Unload()

	bg := ts.BackgroundColor()
	fmt.Printf("Tileset:    %s\n", ts.ID())
	fmt.Printf("Background: #%02x%02x%02x\n", bg.R, bg.G, bg.B)
	fmt.Printf("Tiles:      %s (%dx%d)\n", ts.TilesImage().Path(), ts.TilesImage().Size().X, ts.TilesImage().Size().Y)
	if entities := ts.EntitiesImage(); entities != nil {
		fmt.Printf("Entities:   %s (%dx%d)\n", entities.Path(), entities.Size().X, entities.Size().Y)
	} else {
		fmt.Println("Entities:   none")
	}
	fmt.Printf("Patterns:   %d\n", ts.NumPatterns())

	// Count by ground and by kind
	groundCount := make(map[formats.Ground]int)
	animated, parallax, scrolling := 0, 0, 0
	for _, id := range ts.PatternIDs() {
		p := ts.TilePattern(id)
		groundCount[p.Ground()]++
		if p.IsAnimated() {
			animated++
		}
		switch p.Scrolling() {
		case formats.ScrollingParallax:
			parallax++
		case formats.ScrollingSelf:
			scrolling++
		}
	}
	fmt.Printf("Animated:   %d\n", animated)
	fmt.Printf("Parallax:   %d\n", parallax)
	fmt.Printf("Scrolling:  %d\n", scrolling)

	if len(groundCount) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Patterns by ground:")

	type groundStat struct {
		ground formats.Ground
		count  int
	}
	var stats []groundStat
	for g, count := range groundCount {
		stats = append(stats, groundStat{g, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].ground < stats[j].ground
	})

	for _, s := range stats {
		fmt.Printf("  %-26s %d\n", s.ground, s.count)
	}
}

func cmdList(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N patterns (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilesettool list <id> [pattern]")
		os.Exit(1)
	}

	files, lib := openLibrary(cfg)
	defer files.Close()

	ts := mustLoad(lib, fs.Arg(0))
	defer ts.Unload()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = fs.Arg(1)
	}

	count := 0
	for _, id := range ts.PatternIDs() {
		if pattern != "" {
			matched, err := path.Match(pattern, id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !matched {
				continue
			}
		}

		p := ts.TilePattern(id)
		fmt.Printf("%-32s %-26s %3dx%-3d layer %d  %s\n",
			id, p.Ground(), p.Size().X, p.Size().Y, p.DefaultLayer(), describe(p))

		count++
		if *limit > 0 && count >= *limit {
			fmt.Printf("... (limited to %d)\n", *limit)
			break
		}
	}

	fmt.Printf("\nTotal: %d patterns\n", count)
}

// describe summarizes the variant of a pattern.
func describe(p tilepattern.Pattern) string {
	switch v := p.(type) {
	case *tilepattern.Animated:
		if !v.IsDrawnAtItsPosition() {
			return fmt.Sprintf("animated, %d frames, parallax", v.NumFrames())
		}
		return fmt.Sprintf("animated, %d frames", v.NumFrames())
	case *tilepattern.Parallax:
		return "parallax"
	case *tilepattern.SelfScrolling:
		return "self-scrolling"
	default:
		return "static"
	}
}

func cmdCheck(cfg *config.Config, args []string) {
	files, lib := openLibrary(cfg)
	defer files.Close()

	ids := args
	if len(ids) == 0 {
		var err error
		ids, err = lib.IDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if len(ids) == 0 {
		fmt.Println("No tilesets found")
		return
	}

	failed := 0
	for _, id := range ids {
		ts, err := lib.Load(id)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %-24s %v\n", id, err)
			logger.Warn("tileset check failed", zap.String("tileset", id), zap.Error(err))
			continue
		}
		fmt.Printf("ok    %-24s %d patterns\n", id, ts.NumPatterns())
		ts.Unload()
	}

	fmt.Printf("\n%d checked, %d failed\n", len(ids), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdRender(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	scale := fs.Int("scale", 1, "Zoom factor")
	at := fs.Duration("t", 0, "Animation time")
	fs.Parse(args)

	if fs.NArg() < 3 || *scale < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilesettool render [-scale n] [-t duration] <id> <pattern> <out.png>")
		os.Exit(1)
	}

	files, lib := openLibrary(cfg)
	defer files.Close()

	ts := mustLoad(lib, fs.Arg(0))
	defer ts.Unload()

	id := fs.Arg(1)
	if !ts.HasTilePattern(id) {
		fmt.Fprintf(os.Stderr, "Error: tileset %s has no tile pattern %q\n", ts.ID(), id)
		os.Exit(1)
	}

	size := ts.TilePattern(id).Size()
	img := image.NewRGBA(image.Rectangle{Max: size})
	ts.DrawTilePattern(img, id, image.Point{}, tilepattern.View{Time: *at})

	writePNG(fs.Arg(2), zoom(img, *scale))
	fmt.Printf("Rendered %s/%s (%dx%d) to %s\n", ts.ID(), id, size.X*(*scale), size.Y*(*scale), fs.Arg(2))
}

func cmdSheet(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("sheet", flag.ExitOnError)
	scale := fs.Int("scale", 1, "Zoom factor")
	at := fs.Duration("t", 0, "Animation time")
	cols := fs.Int("cols", 0, "Patterns per row (0 = square grid)")
	grounds := fs.Bool("grounds", false, "Tint patterns by ground")
	outlines := fs.Bool("outlines", false, "Outline every pattern")
	fs.Parse(args)

	if fs.NArg() < 2 || *scale < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilesettool sheet [-scale n] [-t duration] [-cols n] [-grounds] [-outlines] <id> <out.png>")
		os.Exit(1)
	}

	files, lib := openLibrary(cfg)
	defer files.Close()

	ts := mustLoad(lib, fs.Arg(0))
	defer ts.Unload()

	var overlays scene.Overlay
	if *grounds {
		overlays |= scene.OverlayGrounds
	}
	if *outlines {
		overlays |= scene.OverlayOutlines
	}

	sc := scene.New(ts, scene.Config{Columns: *cols, Padding: scene.DefaultPadding})
	writePNG(fs.Arg(1), zoom(sc.Image(tilepattern.View{Time: *at}, overlays), *scale))
	fmt.Printf("Rendered %d patterns of %s to %s\n", ts.NumPatterns(), ts.ID(), fs.Arg(1))
}

// zoom scales img by an integer factor without smoothing.
func zoom(img *image.RGBA, scale int) *image.RGBA {
	if scale == 1 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding %s: %v\n", path, err)
		os.Exit(1)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	var err error
	target := ""
	if len(args) > 0 {
		target = args[0]
		err = cfg.SaveTo(target)
	} else {
		target = config.ConfigDir()
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration written to %s\n", target)
}
