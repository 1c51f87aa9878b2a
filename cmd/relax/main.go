package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"meshrelax/internal/batch"
	"meshrelax/internal/config"
	"meshrelax/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a job file (.json, .toml, .yaml)")
	only := flag.String("job", "", "Run only the job with this name")
	workers := flag.Int("workers", 0, "Number of concurrent jobs (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: relaxed)")
	format := flag.String("format", "", "Preview format: webp or tga (default: webp)")
	size := flag.Int("size", 0, "Preview edge in pixels (default: 256)")

	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Format:    *format,
		Size:      *size,
		Workers:   *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	view, err := viewmatrix.ByName(cfg.View)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jobs := cfg.Jobs
	if *only != "" {
		jobs = nil
		for _, j := range cfg.Jobs {
			if j.Name == *only {
				jobs = append(jobs, j)
			}
		}
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to run.")
		os.Exit(0)
	}

	fmt.Printf("Mesh relaxation → %s previews\n", cfg.Format)
	fmt.Printf("Jobs: %d, Workers: %d, Max steps: %d\n", len(jobs), cfg.Workers, cfg.Solver.MaxSteps)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, runErr := batch.Run(ctx, batch.Config{
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		View:        view,
		FOV:         cfg.FOV,
		Edges:       cfg.Edges,
		Workers:     cfg.Workers,
		Solver:      cfg.SolverFor,
		Progress:    os.Stdout,
	}, jobs)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Finished %d jobs in %.1fs\n", len(results), time.Since(start).Seconds())
	failed := printSummary(os.Stdout, results)

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Interrupted: %v\n", runErr)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// printSummary writes one row per job and returns the number of failures.
func printSummary(w io.Writer, results []batch.Result) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTATE\tSTEPS\tVERTS\tFACES\tSPLIT/COLLAPSE\tCUTS")
	failed, stalled := 0, 0
	for _, r := range results {
		switch {
		case !r.Success:
			failed++
			fmt.Fprintf(tw, "%s\tfailed: %s\t\t\t\t\t\n", r.Name, r.Error)
			continue
		case !r.Converged:
			stalled++
		}
		state := "converged"
		if !r.Converged {
			state = "step limit"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d/%d\t%d\n",
			r.Name, state, r.Steps, r.Vertices, r.Faces, r.Splits, r.Collapses, r.Cuts)
	}
	tw.Flush()
	fmt.Fprintf(w, "Relaxed: %d/%d (%d hit the step limit, %d failed)\n",
		len(results)-failed, len(results), stalled, failed)
	return failed
}
