package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"meshrelax/internal/dynamics"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/target"
)

// Config holds the jobs of one batch run and the settings they share.
type Config struct {
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Preview settings
	Format      string  `json:"format" toml:"format" yaml:"format"`
	RenderSize  int     `json:"render_size" toml:"render_size" yaml:"render_size"`
	Supersample int     `json:"supersample" toml:"supersample" yaml:"supersample"`
	View        string  `json:"view" toml:"view" yaml:"view"`
	FOV         float64 `json:"fov" toml:"fov" yaml:"fov"`
	Edges       bool    `json:"edges" toml:"edges" yaml:"edges"` // outline polygons

	Workers int               `json:"workers" toml:"workers" yaml:"workers"`
	Solver  dynamics.Settings `json:"solver" toml:"solver" yaml:"solver"`
	Jobs    []Job             `json:"jobs" toml:"jobs" yaml:"jobs"`
}

// Job describes one mesh to generate, relax and preview.
type Job struct {
	Name   string  `json:"name" toml:"name" yaml:"name"`
	Shape  string  `json:"shape" toml:"shape" yaml:"shape"` // grid, trigrid, box, ico
	N      int     `json:"n" toml:"n" yaml:"n"`             // cells per side for grids
	Size   float64 `json:"size" toml:"size" yaml:"size"`    // cell size, box edge or radius
	Jitter float64 `json:"jitter" toml:"jitter" yaml:"jitter"`
	Seed   int64   `json:"seed" toml:"seed" yaml:"seed"`

	RemeshLength     float64 `json:"remesh_length" toml:"remesh_length" yaml:"remesh_length"`
	RemeshIterations int     `json:"remesh_iterations" toml:"remesh_iterations" yaml:"remesh_iterations"`

	Planarity   float64 `json:"planarity" toml:"planarity" yaml:"planarity"`
	EqualEdges  float64 `json:"equal_edges" toml:"equal_edges" yaml:"equal_edges"`
	PinBoundary float64 `json:"pin_boundary" toml:"pin_boundary" yaml:"pin_boundary"`
	Target      *Target `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"`

	MaxSteps int  `json:"max_steps" toml:"max_steps" yaml:"max_steps"`
	Unroll   bool `json:"unroll" toml:"unroll" yaml:"unroll"`
}

// Target is an analytic projection goal.
type Target struct {
	Kind         string     `json:"kind" toml:"kind" yaml:"kind"` // plane, sphere, cylinder
	Origin       [3]float64 `json:"origin" toml:"origin" yaml:"origin"`
	Direction    [3]float64 `json:"direction" toml:"direction" yaml:"direction"` // plane normal or cylinder axis
	Radius       float64    `json:"radius" toml:"radius" yaml:"radius"`
	Weight       float64    `json:"weight" toml:"weight" yaml:"weight"`
	BoundaryOnly bool       `json:"boundary_only" toml:"boundary_only" yaml:"boundary_only"`
}

// Oracle builds the closest-point oracle for t.
func (t Target) Oracle() (target.Oracle, error) {
	o, d := mathutil.Vec3(t.Origin), mathutil.Vec3(t.Direction)
	switch t.Kind {
	case "plane":
		if d.LenSq() == 0 {
			return nil, fmt.Errorf("config: plane target needs a direction")
		}
		return target.Plane{Plane: mathutil.Plane{Origin: o, Normal: d.Normalize()}}, nil
	case "sphere":
		return target.Sphere{Centre: o, Radius: t.Radius}, nil
	case "cylinder":
		if d.LenSq() == 0 {
			return nil, fmt.Errorf("config: cylinder target needs a direction")
		}
		return target.Cylinder{Origin: o, Axis: d, Radius: t.Radius}, nil
	}
	return nil, fmt.Errorf("config: unknown target kind %q", t.Kind)
}

// Load reads a config file. The format follows the extension: .json,
// .toml, .yaml or .yml. Solver fields absent from the file keep their
// defaults; everything else is filled by Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Config{Solver: dynamics.DefaultSettings()}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	Size      int
	Workers   int
}

// DefaultMaxSteps bounds jobs that do not set their own limit.
const DefaultMaxSteps = 10000

// Resolve applies flags and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" {
		c.OutputDir = "relaxed"
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Solver == (dynamics.Settings{}) {
		c.Solver = dynamics.DefaultSettings()
	}
	if c.Solver.MaxSteps <= 0 {
		c.Solver.MaxSteps = DefaultMaxSteps
	}

	for i := range c.Jobs {
		j := &c.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i)
		}
		if j.N <= 0 {
			j.N = 4
		}
		if j.Size <= 0 {
			j.Size = 1
		}
	}
}

// Validate reports the first setting Resolve could not make sense of.
func (c *Config) Validate() error {
	switch c.Format {
	case "webp", "tga":
	default:
		return fmt.Errorf("config: unknown image format %q", c.Format)
	}
	seen := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		if seen[j.Name] {
			return fmt.Errorf("config: duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
		switch j.Shape {
		case "grid", "trigrid", "box", "ico":
		default:
			return fmt.Errorf("config: job %s: unknown shape %q", j.Name, j.Shape)
		}
		if j.Target != nil {
			if _, err := j.Target.Oracle(); err != nil {
				return fmt.Errorf("config: job %s: %w", j.Name, err)
			}
		}
	}
	return nil
}

// SolverFor returns the solver settings of job j.
func (c *Config) SolverFor(j Job) dynamics.Settings {
	s := c.Solver
	if j.MaxSteps > 0 {
		s.MaxSteps = j.MaxSteps
	}
	if s.Workers <= 0 {
		s.Workers = c.Workers
	}
	return s
}
