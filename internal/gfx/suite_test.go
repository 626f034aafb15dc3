package gfx

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platdiag/internal/timefit"
)

func quickOpts() timefit.Options {
	return timefit.Options{TimeBudget: 5 * time.Millisecond, MaxIterations: 16}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("mpixels_sec_fill_solid", nil))
	assert.True(t, Matches("mpixels_sec_fill_solid", []string{"fill"}))
	assert.True(t, Matches("mpixels_sec_fill_solid", []string{"clear", "solid"}))
	assert.False(t, Matches("mpixels_sec_fill_solid", []string{"clear"}))
}

func TestRun_AllTests(t *testing.T) {
	s := NewSuite(64, 64)

	var out bytes.Buffer
	results, err := s.Run(&out, nil, 0, quickOpts())
	require.NoError(t, err)

	require.Len(t, results, len(s.Tests()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(results))

	for i, r := range results {
		assert.GreaterOrEqual(t, r.Value, 0.0, "%s reported a negative rate", r.Name)
		assert.True(t, strings.HasPrefix(lines[i], r.Name+": "), "line %q", lines[i])
	}
}

func TestRun_Filtered(t *testing.T) {
	s := NewSuite(64, 64)

	var out bytes.Buffer
	results, err := s.Run(&out, []string{"clear"}, 0, quickOpts())
	require.NoError(t, err)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, r.Name, "clear")
	}
}

func TestRun_NoMatch(t *testing.T) {
	s := NewSuite(64, 64)

	var out bytes.Buffer
	results, err := s.Run(&out, []string{"no-such-test"}, 0, quickOpts())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, out.String())
}

func TestRun_DurationLoops(t *testing.T) {
	s := NewSuite(32, 32)

	var out bytes.Buffer
	start := time.Now()
	_, err := s.Run(&out, []string{"us_swap_swap"}, 50*time.Millisecond, quickOpts())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	// Multiple passes mean the single filtered test reports repeatedly.
	assert.Greater(t, strings.Count(out.String(), "us_swap_swap: "), 1)
}

func TestWorkloads_TouchBuffers(t *testing.T) {
	s := NewSuite(16, 16)

	s.clearColor(1)
	assert.Equal(t, uint32(clearValue), s.back[0])

	s.fillSolid(1)
	assert.Equal(t, uint32(solidColor), s.back[0])

	s.clearDepth(1)
	assert.Equal(t, float32(1.0), s.depth[len(s.depth)-1])

	s.fillTexNearest(1)
	s.fillTexBilinear(1)
	s.triangleSetup(1)

	before := make([]uint32, len(s.front))
	copy(before, s.back)
	s.swap(1)
	assert.Equal(t, before, s.front, "swap must move the back buffer forward")
}

func TestBilinear_FlatPatchIsExact(t *testing.T) {
	tex := newTexture(4)
	for i := range tex.pixels {
		tex.pixels[i] = 0xFF808080
	}
	assert.Equal(t, uint32(0xFF808080), tex.sampleBilinear(2.0, 2.0))
}
