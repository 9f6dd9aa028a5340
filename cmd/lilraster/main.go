// lilraster - software rasterizer for normalized meshes
// Renders OBJ and GLB/glTF models to an image, one triangle at a time, with
// no GPU and no z-buffer: overlapping faces are resolved by keeping the
// brighter color.
//
// Usage:
//
//	lilraster [flags] <model.obj|model.glb>...
//
// With several inputs each model is written next to --output, named after
// the model. --watch re-renders a model whenever its file changes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/lilraster/pkg/config"
	"github.com/taigrr/lilraster/pkg/render"
)

var version = "dev"

// cliOptions are the settings that only make sense on the command line.
type cliOptions struct {
	configPath string
	preview    int
	watch      bool
	jobs       int
	verbose    bool
	noProgress bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cli cliOptions
	flagCfg := config.Default()

	cmd := &cobra.Command{
		Use:   "lilraster [flags] <model>...",
		Short: "Rasterize OBJ and glTF meshes to images",
		Long: `lilraster projects a mesh whose coordinates lie in [-1, 1] onto an image,
shading each triangle by its average depth. Use --normalize for meshes that
are not already centered and scaled.`,
		Example: `  lilraster model.obj
  lilraster --width 800 --height 800 --mode wireframe --outline '#ff8800' model.obj
  lilraster --normalize --preview 80 suzanne.glb
  lilraster --config render.toml --jobs 4 models/*.obj`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cli.configPath, flagCfg)
			if err != nil {
				return err
			}

			logger := newLogger(cli.verbose)
			render.SetLogger(logger)

			jobs, err := planJobs(cfg, args)
			if err != nil {
				return err
			}

			r := &runner{cfg: cfg, cli: cli, log: logger, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			if err := r.runAll(cmd.Context(), jobs); err != nil {
				return err
			}
			if cli.watch {
				return r.watch(cmd.Context(), jobs)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cli.configPath, "config", "c", "", "TOML or YAML config file")
	f.IntVarP(&flagCfg.Width, "width", "W", flagCfg.Width, "image width in pixels")
	f.IntVarP(&flagCfg.Height, "height", "H", flagCfg.Height, "image height in pixels")
	f.StringVar(&flagCfg.Background, "bg", flagCfg.Background, "background color (R,G,B, #hex or name)")
	f.StringVarP(&flagCfg.Mode, "mode", "m", flagCfg.Mode, "render mode: solid, wireframe or palette")
	f.StringVar(&flagCfg.Outline, "outline", flagCfg.Outline, "wireframe edge color")
	f.StringVar(&flagCfg.Fill, "fill", flagCfg.Fill, "triangle fill: bridge, dedup or scanline")
	f.StringVar(&flagCfg.Highlight, "highlight", flagCfg.Highlight, "mark wireframe edge endpoints with this color")
	f.Uint64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "palette seed")
	f.BoolVarP(&flagCfg.Normalize, "normalize", "n", flagCfg.Normalize, "center and scale the mesh into [-1, 1]")
	f.StringVarP(&flagCfg.Output, "output", "o", flagCfg.Output, "output image (.png, .jpg, .gif, .bmp, .tiff)")
	f.IntVarP(&cli.preview, "preview", "p", 0, "print a preview this many columns wide to the terminal")
	f.BoolVarP(&cli.watch, "watch", "w", false, "re-render when a model file changes")
	f.IntVarP(&cli.jobs, "jobs", "j", 1, "models rendered in parallel")
	f.BoolVarP(&cli.verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&cli.noProgress, "no-progress", false, "disable the progress bar")

	return cmd
}

// resolveConfig starts from the config file, if any, and applies every flag
// the user set explicitly on top of it.
func resolveConfig(cmd *cobra.Command, path string, flagCfg config.Config) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("width", func() { cfg.Width = flagCfg.Width })
	set("height", func() { cfg.Height = flagCfg.Height })
	set("bg", func() { cfg.Background = flagCfg.Background })
	set("mode", func() { cfg.Mode = flagCfg.Mode })
	set("outline", func() { cfg.Outline = flagCfg.Outline })
	set("fill", func() { cfg.Fill = flagCfg.Fill })
	set("highlight", func() { cfg.Highlight = flagCfg.Highlight })
	set("seed", func() { cfg.Seed = flagCfg.Seed })
	set("normalize", func() { cfg.Normalize = flagCfg.Normalize })
	set("output", func() { cfg.Output = flagCfg.Output })

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
