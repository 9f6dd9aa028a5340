package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/lilraster/pkg/render"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bg, err := cfg.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, render.ColorBlack, bg)

	opts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, render.ModeSolid, opts.Mode)
	assert.Equal(t, render.ColorRed, opts.Outline)
	assert.Equal(t, render.FillBridge, opts.Filler.Name())
	assert.False(t, opts.Highlight)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want render.Color
	}{
		{"30,30,40", render.RGB(30, 30, 40)},
		{" 255, 0 ,255 ", render.ColorMagenta},
		{"#ff8000", render.RGB(255, 128, 0)},
		{"#FFFFFF", render.ColorWhite},
		{"white", render.ColorWhite},
		{"SteelBlue", render.RGB(70, 130, 180)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "1,2", "1,2,300", "a,b,c", "#zzzzzz", "notacolor"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, "%q should not parse", bad)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -5 }},
		{"unknown mode", func(c *Config) { c.Mode = "phong" }},
		{"unknown fill", func(c *Config) { c.Fill = "flood" }},
		{"bad background", func(c *Config) { c.Background = "1,2" }},
		{"bad highlight", func(c *Config) { c.Highlight = "nope" }},
		{"bad output", func(c *Config) { c.Output = "out.webp" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lilraster.toml")
	data := `
width = 320
height = 240
mode = "wireframe"
outline = "#00ff00"
highlight = "white"
fill = "dedup"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
	assert.Equal(t, "render_output.png", cfg.Output, "unset keys keep defaults")

	opts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, render.ModeWireframe, opts.Mode)
	assert.Equal(t, render.ColorGreen, opts.Outline)
	assert.True(t, opts.Highlight)
	assert.Equal(t, render.ColorWhite, opts.HighlightColor)
	assert.Equal(t, render.FillDedup, opts.Filler.Name())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lilraster.yaml")
	data := "width: 64\nheight: 32\nmode: palette\nseed: 7\nnormalize: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, "palette", cfg.Mode)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ini := filepath.Join(dir, "cfg.ini")
	require.NoError(t, os.WriteFile(ini, []byte("width=1"), 0o644))
	_, err = Load(ini)
	assert.ErrorIs(t, err, ErrInvalid)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("width = 0\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)

	garbled := filepath.Join(dir, "garbled.yaml")
	require.NoError(t, os.WriteFile(garbled, []byte("width: [1"), 0o644))
	_, err = Load(garbled)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Width, cfg.Height = 128, 96
	cfg.Mode = "wireframe"
	cfg.Highlight = "#ffff00"

	for _, name := range []string{"cfg.toml", "cfg.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.Save(path))

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, got, name)
	}
}
