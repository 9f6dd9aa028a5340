package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/lilraster/pkg/config"
	"github.com/taigrr/lilraster/pkg/models"
	"github.com/taigrr/lilraster/pkg/progress"
	"github.com/taigrr/lilraster/pkg/render"
)

// job is one model to render and where to write it.
type job struct {
	input  string
	output string
}

// planJobs expands paths and assigns an output file to every input. A single
// input is written to cfg.Output; several inputs are written to the output
// directory, named after each model with the output extension.
func planJobs(cfg config.Config, inputs []string) ([]job, error) {
	output, err := homedir.Expand(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("expand output path: %w", err)
	}

	jobs := make([]job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		in, err := homedir.Expand(in)
		if err != nil {
			return nil, fmt.Errorf("expand input path: %w", err)
		}
		out := output
		if len(inputs) > 1 {
			stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			out = filepath.Join(filepath.Dir(output), stem+filepath.Ext(output))
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, job{input: in, output: out})
	}
	return jobs, nil
}

type runner struct {
	cfg    config.Config
	cli    cliOptions
	log    *slog.Logger
	out    io.Writer // previews
	errOut io.Writer // progress bars

	previewMu sync.Mutex
}

// runAll renders every job, at most cli.jobs at a time. The first failure
// cancels jobs that have not started yet.
func (r *runner) runAll(ctx context.Context, jobs []job) error {
	if len(jobs) == 1 {
		return r.renderJob(ctx, jobs[0], r.faceBar(jobs[0]))
	}

	var overall *progress.Bar
	if !r.cli.noProgress {
		overall = progress.New(r.errOut, fmt.Sprintf("%d models", len(jobs)))
	}
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.cli.jobs, 1))
	for _, j := range jobs {
		g.Go(func() error {
			if err := r.renderJob(ctx, j, nil); err != nil {
				return err
			}
			if overall != nil {
				overall.Update(int(done.Add(1)), len(jobs))
			}
			return nil
		})
	}
	err := g.Wait()
	if overall != nil && err == nil {
		overall.Finish()
	}
	return err
}

func (r *runner) faceBar(j job) *progress.Bar {
	if r.cli.noProgress {
		return nil
	}
	return progress.New(r.errOut, filepath.Base(j.input))
}

// renderJob loads, rasterizes and saves one model. bar may be nil.
func (r *runner) renderJob(ctx context.Context, j job, bar *progress.Bar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	mesh, err := models.Load(j.input)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	r.log.Info("loaded", "model", filepath.Base(j.input), "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())

	cv, err := renderMesh(r.cfg, mesh, bar)
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(j.input), err)
	}
	if !r.cfg.Normalize && !mesh.IsNormalized() {
		r.log.Warn("mesh extends outside [-1, 1]; pixels off the canvas were dropped (try --normalize)",
			"model", filepath.Base(j.input), "dropped", cv.Stats.Dropped)
	}

	if err := render.SaveImage(cv.ToImage(), j.output); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	r.log.Info("saved", "image", j.output, "elapsed", time.Since(start).Round(time.Millisecond))

	if r.cli.preview > 0 {
		r.previewMu.Lock()
		defer r.previewMu.Unlock()
		if err := render.Preview(r.out, cv, r.cli.preview, 0); err != nil {
			return err
		}
	}
	return nil
}

// renderMesh rasterizes mesh with the settings in cfg. The mesh is
// normalized in place when cfg.Normalize is set.
func renderMesh(cfg config.Config, mesh *models.Mesh, bar *progress.Bar) (*render.Canvas, error) {
	if cfg.Normalize {
		mesh.Normalize()
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	if bar != nil {
		opts.OnFace = bar.Update
	}

	cv := render.NewCanvas(cfg.Width, cfg.Height, bg)
	if err := render.NewRenderer(opts).Render(cv, mesh); err != nil {
		return nil, err
	}
	if bar != nil {
		bar.Finish()
	}
	return cv, nil
}
