// Package gfx is the throughput micro-benchmark suite behind the glbench
// command. The workloads are software equivalents of the classic GPU
// fill/clear/texture/triangle tests, operating on an in-memory
// framebuffer, so the timing estimator and reporting paths are exercised
// without a GL context.
package gfx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"platdiag/internal/timefit"
)

// Test is one named workload. Value reported is
// Coefficient * slope (direct) or Coefficient / slope (inverse),
// with slope in seconds per iteration.
type Test struct {
	Name        string
	Coefficient float64
	Inverse     bool
	Func        func(iterations int)
}

// Result is the reported metric of one test.
type Result struct {
	Name  string
	Value float64
}

// Suite owns the framebuffer state shared by the workloads.
type Suite struct {
	width, height int
	front, back   []uint32
	depth         []float32
	tex           *texture
	tests         []Test
}

// DefaultSize matches the historical benchmark surface.
const DefaultSize = 512

// NewSuite allocates the buffers and registers the workloads.
func NewSuite(width, height int) *Suite {
	if width <= 0 {
		width = DefaultSize
	}
	if height <= 0 {
		height = DefaultSize
	}
	s := &Suite{
		width:  width,
		height: height,
		front:  make([]uint32, width*height),
		back:   make([]uint32, width*height),
		depth:  make([]float32, width*height),
		tex:    newTexture(256),
	}
	s.register()
	return s
}

// Tests returns the registered workloads in run order.
func (s *Suite) Tests() []Test {
	return s.tests
}

func (s *Suite) register() {
	pixels := float64(s.width * s.height)
	mpix := pixels / 1e6

	s.tests = []Test{
		// Reported in microseconds per swap.
		{Name: "us_swap_swap", Coefficient: 1e6, Func: s.swap},
		{Name: "mpixels_sec_clear_color", Coefficient: mpix, Inverse: true, Func: s.clearColor},
		{Name: "mpixels_sec_clear_depth", Coefficient: mpix, Inverse: true, Func: s.clearDepth},
		{Name: "mpixels_sec_clear_colordepth", Coefficient: mpix, Inverse: true, Func: s.clearColorDepth},
		{Name: "mpixels_sec_fill_solid", Coefficient: mpix, Inverse: true, Func: s.fillSolid},
		{Name: "mpixels_sec_fill_solid_blended", Coefficient: mpix, Inverse: true, Func: s.fillBlended},
		{Name: "mpixels_sec_fill_tex_nearest", Coefficient: mpix, Inverse: true, Func: s.fillTexNearest},
		{Name: "mpixels_sec_fill_tex_bilinear", Coefficient: mpix, Inverse: true, Func: s.fillTexBilinear},
		{Name: "mtri_sec_triangle_setup", Coefficient: float64(meshTriangles) / 1e6, Inverse: true, Func: s.triangleSetup},
	}
}

// Matches reports whether a test name passes the substring filters. An
// empty filter list matches everything.
func Matches(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// Run benchmarks every test passing the filters, writing one
// "name: value" line per test. When duration is positive the whole suite
// loops until it has run for at least that long, re-reporting each pass;
// the returned results are from the final pass.
func (s *Suite) Run(w io.Writer, filters []string, duration time.Duration, opts timefit.Options) ([]Result, error) {
	deadline := time.Now().Add(duration)
	var results []Result
	for {
		results = results[:0]
		for _, t := range s.tests {
			if !Matches(t.Name, filters) {
				continue
			}
			slope, _, err := timefit.Bench(t.Func, opts)
			if err != nil {
				return nil, fmt.Errorf("gfx: benchmarking %s: %w", t.Name, err)
			}
			value := timefit.Rate(t.Coefficient, slope, t.Inverse)
			if _, err := fmt.Fprintf(w, "%s: %g\n", t.Name, value); err != nil {
				return nil, err
			}
			results = append(results, Result{Name: t.Name, Value: value})
		}
		if !time.Now().Before(deadline) {
			return results, nil
		}
	}
}
