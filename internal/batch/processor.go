package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/sync/errgroup"

	"meshrelax/internal/config"
	"meshrelax/internal/dynamics"
	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/meshgen"
	"meshrelax/internal/postprocess"
	"meshrelax/internal/raster"
	"meshrelax/internal/relax"
)

// Config holds the settings shared by every job of a batch run.
type Config struct {
	OutputDir   string
	Format      string // webp or tga
	RenderSize  int
	Supersample int
	View        mathutil.Mat3
	FOV         float64
	Edges       bool
	Workers     int
	Solver      func(config.Job) dynamics.Settings

	// Progress receives a line every two seconds while jobs run. Nil is silent.
	Progress io.Writer
}

// Result holds the outcome of one job.
type Result struct {
	Name      string
	Success   bool
	Error     string
	Steps     int
	Converged bool
	Vertices  int
	Faces     int
	Splits    int
	Collapses int
	Cuts      int
	Image     string
}

// Run processes jobs on at most cfg.Workers goroutines. A failing job is
// reported in its Result and does not stop the others; cancelling ctx
// stops running solvers between steps and skips jobs not yet started.
func Run(ctx context.Context, cfg Config, jobs []config.Job) ([]Result, error) {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f jobs/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, job := range jobs {
		if gctx.Err() != nil {
			results[i] = Result{Name: job.Name, Error: gctx.Err().Error()}
			continue
		}
		g.Go(func() error {
			results[i] = processJob(gctx, cfg, job)
			processed.Add(1)
			return nil
		})
	}
	err := g.Wait()
	close(done)

	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

func processJob(ctx context.Context, cfg Config, job config.Job) Result {
	res := Result{Name: job.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	m, err := build(job)
	if err != nil {
		return fail(err)
	}
	if job.Jitter > 0 {
		meshgen.Jitter(m, job.Jitter, job.Seed)
	}
	if job.RemeshLength > 0 {
		st, err := relax.Remesh(m, relax.RemeshOptions{Length: job.RemeshLength, Iterations: job.RemeshIterations})
		res.Splits, res.Collapses = st.Splits, st.Collapses
		if err != nil {
			return fail(err)
		}
	}

	goals := relax.Goals{
		Planarity:   job.Planarity,
		EqualEdges:  job.EqualEdges,
		PinBoundary: job.PinBoundary,
	}
	if job.Target != nil {
		o, err := job.Target.Oracle()
		if err != nil {
			return fail(err)
		}
		goals.Onto = relax.Target{Oracle: o, Weight: job.Target.Weight, BoundaryOnly: job.Target.BoundaryOnly}
	}

	settings := dynamics.DefaultSettings()
	if cfg.Solver != nil {
		settings = cfg.Solver(job)
	}
	rep, err := relax.Relax(ctx, m, settings, goals)
	res.Steps, res.Converged = rep.Steps, rep.Converged
	if err != nil {
		return fail(err)
	}

	if job.Unroll {
		res.Cuts = unroll(m)
	}
	if err := m.Validate(); err != nil {
		return fail(fmt.Errorf("batch: job %s: %w", job.Name, err))
	}
	res.Vertices, res.Faces = m.VertexCount(), m.FaceCount()

	img := render(cfg, m)
	res.Image = job.Name + "." + cfg.Format
	if err := save(filepath.Join(cfg.OutputDir, res.Image), cfg.Format, img); err != nil {
		return fail(err)
	}
	res.Success = true
	return res
}

func build(job config.Job) (*meshgen.Mesh, error) {
	switch job.Shape {
	case "grid":
		return meshgen.Grid(job.N, job.N, job.Size, false)
	case "trigrid":
		return meshgen.Grid(job.N, job.N, job.Size, true)
	case "box":
		return meshgen.Box(mathutil.Vec3{}, mathutil.Vec3{job.Size, job.Size, job.Size})
	case "ico":
		return meshgen.Icosahedron(job.Size)
	}
	return nil, fmt.Errorf("batch: job %s: unknown shape %q", job.Name, job.Shape)
}

// unroll flattens m from its first face and returns the number of cut edges.
func unroll(m *meshgen.Mesh) int {
	for f := range m.Faces() {
		return m.Unroll(f,
			func(v hemesh.VertexID) mathutil.Vec3 { return *m.VertexData(v) },
			func(v hemesh.VertexID, p mathutil.Vec3) { *m.VertexData(v) = p })
	}
	return 0
}

var edgeColor = raster.Color{40, 40, 48, 255}

func render(cfg Config, m *meshgen.Mesh) *image.NRGBA {
	var polys [][]int
	for f := range m.Faces() {
		var poly []int
		for v := range m.FaceVertices(f) {
			poly = append(poly, int(v))
		}
		polys = append(polys, poly)
	}
	opt := raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		View:        cfg.View,
		FOV:         cfg.FOV,
	}
	if cfg.Edges {
		opt.Edges = edgeColor
	}
	img := raster.RenderPolygons(meshgen.Positions(m), polys, opt)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	return img
}

func save(path, format string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	switch format {
	case "webp":
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	case "tga":
		if err := tga.Encode(f, img); err != nil {
			return fmt.Errorf("tga encode: %w", err)
		}
	default:
		return fmt.Errorf("batch: unknown image format %q", format)
	}
	return nil
}
