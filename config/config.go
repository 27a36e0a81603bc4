// Package config loads the optional TOML settings file and validates it
// against the tuning defaults in package parameter.
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/parallax/input"
	"github.com/lixenwraith/parallax/location"
	"github.com/lixenwraith/parallax/parameter"
	"github.com/lixenwraith/parallax/picture"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as "20s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ParallaxConfig struct {
	Speed     float64 `toml:"speed"`
	MaxOffset float64 `toml:"max_offset"`
	RowPixels float64 `toml:"row_pixels"` // virtual pixels reported per row of scroll
}

type DisplayConfig struct {
	Mode         string `toml:"mode"`  // quadrant | bg
	Color        string `toml:"color"` // auto | truecolor | 256
	CardPaddingX int    `toml:"card_padding_x"`
	CardPaddingY int    `toml:"card_padding_y"`
}

type ImagesConfig struct {
	CacheDir      string   `toml:"cache_dir"` // empty keeps images in memory only
	Timeout       Duration `toml:"timeout"`
	MaxConcurrent int      `toml:"max_concurrent"`
	MaxWidth      int      `toml:"max_width"`
	S3Region      string   `toml:"s3_region"`
}

// Config is the full settings tree
type Config struct {
	Parallax  ParallaxConfig      `toml:"parallax"`
	Display   DisplayConfig       `toml:"display"`
	Images    ImagesConfig        `toml:"images"`
	Keys      map[string]string   `toml:"keys"`
	Locations []location.Location `toml:"locations"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Parallax: ParallaxConfig{
			Speed:     parameter.ParallaxSpeed,
			MaxOffset: parameter.ParallaxMaxOffset,
			RowPixels: parameter.ScrollRowPixels,
		},
		Display: DisplayConfig{
			Mode:         "quadrant",
			Color:        "auto",
			CardPaddingX: parameter.CardPaddingX,
			CardPaddingY: parameter.CardPaddingY,
		},
		Images: ImagesConfig{
			Timeout:       Duration{parameter.ImageFetchTimeout},
			MaxConcurrent: parameter.ImageMaxConcurrent,
			MaxWidth:      parameter.ImageMaxWidth,
		},
		Locations: location.Defaults(),
	}
}

// Load reads path over the defaults, an empty path returns the defaults
// Keys absent from the file keep their default values
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// Locations from the file replace the bundled set as a whole
	cfg.Locations = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = location.Defaults()
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Printf("config: %s: ignoring unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	log.Printf("config: loaded %s (%d locations)", path, len(cfg.Locations))
	return cfg, nil
}

// Validate checks every field, returning the first failure wrapped in ErrInvalid
func (c *Config) Validate() error {
	p := c.Parallax
	if math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0) || p.Speed < 0 {
		return fmt.Errorf("%w: parallax.speed must be finite and >= 0, got %v", ErrInvalid, p.Speed)
	}
	if !(p.MaxOffset > 0) || math.IsInf(p.MaxOffset, 0) {
		return fmt.Errorf("%w: parallax.max_offset must be finite and > 0, got %v", ErrInvalid, p.MaxOffset)
	}
	if !(p.RowPixels > 0) || math.IsInf(p.RowPixels, 0) {
		return fmt.Errorf("%w: parallax.row_pixels must be finite and > 0, got %v", ErrInvalid, p.RowPixels)
	}

	if _, err := picture.ParseMode(c.Display.Mode); err != nil {
		return fmt.Errorf("%w: display.mode: %v", ErrInvalid, err)
	}
	switch strings.ToLower(c.Display.Color) {
	case "", "auto", "truecolor", "true", "24bit", "256", "8bit":
	default:
		return fmt.Errorf("%w: display.color: unknown color mode %q", ErrInvalid, c.Display.Color)
	}
	if c.Display.CardPaddingX < 0 || c.Display.CardPaddingY < 0 {
		return fmt.Errorf("%w: display card padding must be >= 0", ErrInvalid)
	}

	if c.Images.Timeout.Duration < 0 {
		return fmt.Errorf("%w: images.timeout must be >= 0", ErrInvalid)
	}
	if c.Images.MaxConcurrent < 0 || c.Images.MaxWidth < 0 {
		return fmt.Errorf("%w: images.max_concurrent and images.max_width must be >= 0", ErrInvalid)
	}
	if c.Images.MaxWidth > parameter.ImageMaxDimension {
		return fmt.Errorf("%w: images.max_width must be <= %d", ErrInvalid, parameter.ImageMaxDimension)
	}

	if _, err := input.ApplyBindings(input.DefaultKeyTable(), c.Keys); err != nil {
		return fmt.Errorf("%w: keys: %v", ErrInvalid, err)
	}

	for i, loc := range c.Locations {
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("%w: locations[%d]: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

// KeyTable returns the default bindings with the [keys] overrides applied
func (c *Config) KeyTable() (*input.KeyTable, error) {
	return input.ApplyBindings(input.DefaultKeyTable(), c.Keys)
}
