package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"platdiag/internal/history"
)

func TestResultTable(t *testing.T) {
	var out bytes.Buffer
	ResultTable(&out, history.Run{Results: []history.Result{
		{Name: "mpixels_sec_fill_solid", Value: 812.5, Unit: "Mpixel/s"},
		{Name: "us_swap_swap", Value: 9.25, Unit: "us"},
	}})

	s := out.String()
	assert.Contains(t, s, "TEST")
	assert.Contains(t, s, "mpixels_sec_fill_solid")
	assert.Contains(t, s, "812.500")
	assert.Contains(t, s, "Mpixel/s")
}

func TestComparisonTable(t *testing.T) {
	var out bytes.Buffer
	ComparisonTable(&out, []history.Comparison{
		{Name: "fill", Prev: 1000, Curr: 800, Diff: -20, Regressed: true},
		{Name: "swap", Prev: 50, Curr: 55, Diff: 10},
	})

	s := out.String()
	assert.Contains(t, s, "REGRESSED")
	assert.Contains(t, s, "PASS")
	assert.Contains(t, s, "+10.00%")
	assert.Contains(t, s, "-20.00%")
}

func TestVerdicts(t *testing.T) {
	assert.Contains(t, Passed(), "[ PASSED ]")
	assert.Contains(t, Failed(), "[ FAILED ]")
}
