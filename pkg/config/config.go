// Package config holds the render settings shared by the CLI and config
// files. Files may be TOML or YAML; colors are written as "r,g,b", "#rrggbb"
// or a CSS color name.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/lilraster/pkg/render"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config describes one render job.
type Config struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Background string `toml:"background" yaml:"background"`
	Mode       string `toml:"mode" yaml:"mode"`
	Outline    string `toml:"outline" yaml:"outline"`
	Fill       string `toml:"fill" yaml:"fill"`
	Highlight  string `toml:"highlight,omitempty" yaml:"highlight,omitempty"` // Empty disables endpoint highlight
	Seed       uint64 `toml:"seed" yaml:"seed"`
	Normalize  bool   `toml:"normalize" yaml:"normalize"`
	Output     string `toml:"output" yaml:"output"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Width:      2000,
		Height:     2000,
		Background: "0,0,0",
		Mode:       render.ModeSolid.String(),
		Outline:    "255,0,0",
		Fill:       render.FillBridge,
		Seed:       1,
		Output:     "render_output.png",
	}
}

// Load reads a config file on top of Default. The format is chosen by
// extension: .toml, or .yaml/.yml. A leading ~ is expanded.
func Load(path string) (Config, error) {
	cfg := Default()

	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: unknown config format %q", ErrInvalid, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path in the format implied by its extension.
func (c Config) Save(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand config path: %w", err)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(c)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("%w: unknown config format %q", ErrInvalid, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks every field that has a fixed set of legal values.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height))
	}
	if _, err := render.ParseMode(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := render.FillerByName(c.Fill); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	for name, v := range map[string]string{"background": c.Background, "outline": c.Outline, "highlight": c.Highlight} {
		if v == "" && name == "highlight" {
			continue
		}
		if _, err := ParseColor(v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err))
		}
	}
	if c.Output != "" {
		if _, err := render.ImageFormatFromExt(filepath.Ext(c.Output)); err != nil {
			errs = append(errs, fmt.Errorf("%w: output: %w", ErrInvalid, err))
		}
	}
	return errors.Join(errs...)
}

// RenderOptions converts the config into renderer options. The config must
// be valid.
func (c Config) RenderOptions() (render.Options, error) {
	mode, err := render.ParseMode(c.Mode)
	if err != nil {
		return render.Options{}, err
	}
	filler, err := render.FillerByName(c.Fill)
	if err != nil {
		return render.Options{}, err
	}
	outline, err := ParseColor(c.Outline)
	if err != nil {
		return render.Options{}, fmt.Errorf("outline: %w", err)
	}

	opts := render.Options{
		Mode:    mode,
		Outline: outline,
		Filler:  filler,
		Seed:    c.Seed,
	}
	if c.Highlight != "" {
		hc, err := ParseColor(c.Highlight)
		if err != nil {
			return render.Options{}, fmt.Errorf("highlight: %w", err)
		}
		opts.Highlight = true
		opts.HighlightColor = hc
	}
	return opts, nil
}

// BackgroundColor parses the background color.
func (c Config) BackgroundColor() (render.Color, error) {
	return ParseColor(c.Background)
}

// ParseColor accepts "r,g,b" with 0-255 components, "#rgb" or "#rrggbb",
// or a CSS color name such as "steelblue". The result is always opaque.
func ParseColor(s string) (render.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return render.Color{}, errors.New("empty color")
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return render.RGB(r, g, b), nil
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return render.Color{}, fmt.Errorf("parse color %q: want r,g,b", s)
		}
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return render.RGB(rgb[0], rgb[1], rgb[2]), nil
	default:
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return render.Color{}, fmt.Errorf("parse color %q: unknown color name", s)
		}
		return opaque(c), nil
	}
}

func opaque(c color.RGBA) render.Color {
	return render.RGB(c.R, c.G, c.B)
}
