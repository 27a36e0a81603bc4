package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/parallax/app"
	"github.com/lixenwraith/parallax/audio"
	"github.com/lixenwraith/parallax/config"
	"github.com/lixenwraith/parallax/core"
	"github.com/lixenwraith/parallax/imageload"
	"github.com/lixenwraith/parallax/listview"
	"github.com/lixenwraith/parallax/location"
	"github.com/lixenwraith/parallax/picture"
	"github.com/lixenwraith/parallax/render"
)

var (
	configFlag   = flag.String("config", "", "Path to TOML config file")
	colorFlag    = flag.String("color", "", "Color mode: auto, truecolor, 256 (overrides config)")
	modeFlag     = flag.String("mode", "", "Render mode: quadrant, bg (overrides config)")
	debugFlag    = flag.Bool("debug", false, "Write debug log to logs/parallax.log")
	soundFlag    = flag.Bool("sound", false, "Play a click when the list reaches an end")
	cacheDirFlag = flag.String("cache-dir", "", "Directory for the decoded image cache (overrides config)")
	dumpFlag     = flag.Bool("dump", false, "Print every card to stdout as ANSI and exit")
	widthFlag    = flag.Int("width", 80, "Columns for -dump")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if *dumpFlag {
		if err := dump(cfg, *widthFlag, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Dump failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *colorFlag != "" {
		cfg.Display.Color = *colorFlag
	}
	if *modeFlag != "" {
		cfg.Display.Mode = *modeFlag
	}
	if *cacheDirFlag != "" {
		cfg.Images.CacheDir = *cacheDirFlag
	}
}

func newLoader(cfg *config.Config, onReady func(string)) (*imageload.Loader, error) {
	var cache *imageload.DiskCache
	if cfg.Images.CacheDir != "" {
		c, err := imageload.NewDiskCache(cfg.Images.CacheDir)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	fetcher := imageload.NewSchemeFetcher(&http.Client{}, imageload.NewS3Fetcher(cfg.Images.S3Region, nil))
	return imageload.NewLoader(imageload.Options{
		Fetcher:       fetcher,
		Cache:         cache,
		Timeout:       cfg.Images.Timeout.Duration,
		MaxConcurrent: cfg.Images.MaxConcurrent,
		MaxWidth:      cfg.Images.MaxWidth,
		OnReady:       onReady,
	})
}

func imageURLs(locs []location.Location) []string {
	urls := make([]string, len(locs))
	for i, loc := range locs {
		urls[i] = loc.ImageURL
	}
	return urls
}

func run(cfg *config.Config) error {
	colorMode, err := render.ParseColorMode(cfg.Display.Color)
	if err != nil {
		return err
	}
	// tcell reads both before the screen is created
	switch colorMode {
	case render.ColorModeTrueColor:
		os.Setenv("COLORTERM", "truecolor")
	case render.ColorMode256:
		os.Setenv("TCELL_TRUECOLOR", "disable")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	core.RegisterTerminal(screen)
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	loader, err := newLoader(cfg, func(url string) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(url))
	})
	if err != nil {
		return err
	}
	defer loader.Close()
	loader.Prefetch(imageURLs(cfg.Locations)...)

	var sound app.EdgePlayer
	if *soundFlag {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			log.Printf("audio: %v (continuing without sound)", err)
		} else {
			defer sm.Cleanup()
			sound = sm
		}
	}

	a, err := app.New(app.Options{Screen: screen, Images: loader, Config: cfg, Sound: sound})
	if err != nil {
		return err
	}
	defer a.Close()

	log.Printf("parallax: %d locations, color %s, mode %s", len(cfg.Locations), colorMode, cfg.Display.Mode)
	a.Run()
	return nil
}

// dump renders the whole list once at offset 0 and writes it as ANSI
func dump(cfg *config.Config, width int, out io.Writer) error {
	if width <= 0 {
		return fmt.Errorf("width must be positive, got %d", width)
	}
	colorMode, err := render.ParseColorMode(cfg.Display.Color)
	if err != nil {
		return err
	}
	mode, err := picture.ParseMode(cfg.Display.Mode)
	if err != nil {
		return err
	}

	loader, err := newLoader(cfg, nil)
	if err != nil {
		return err
	}
	defer loader.Close()

	urls := imageURLs(cfg.Locations)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Images.Timeout.Duration+5*time.Second)
	defer cancel()
	if err := loader.Wait(ctx, urls...); err != nil {
		log.Printf("dump: images not settled: %v", err)
	}

	r := listview.NewRenderer(loader, listview.Options{
		Width:     width,
		MaxOffset: cfg.Parallax.MaxOffset,
		Mode:      mode,
		PaddingX:  cfg.Display.CardPaddingX,
		PaddingY:  cfg.Display.CardPaddingY,
	})
	lv := r.RenderList(cfg.Locations, func() float64 { return 0 })

	return lv.Snapshot().WriteANSI(out, colorMode)
}
