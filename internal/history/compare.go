package history

import "fmt"

// Comparison is the delta for one metric present in both runs. Metrics
// here are throughputs, so a drop is a regression.
type Comparison struct {
	Name      string
	Prev      float64
	Curr      float64
	Diff      float64 // percentage change, negative means slower
	Regressed bool
}

// Compare matches results by name and computes percentage deltas.
// A metric that dropped by more than threshold percent is flagged as a
// regression.
func Compare(prev, curr Run, threshold float64) []Comparison {
	prevByName := make(map[string]Result, len(prev.Results))
	for _, r := range prev.Results {
		prevByName[r.Name] = r
	}

	var comparisons []Comparison
	for _, c := range curr.Results {
		p, ok := prevByName[c.Name]
		if !ok {
			continue
		}
		comp := Comparison{Name: c.Name, Prev: p.Value, Curr: c.Value}
		if p.Value != 0 {
			comp.Diff = (c.Value - p.Value) / p.Value * 100
		}
		comp.Regressed = comp.Diff < -threshold
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%%", c.Name, c.Diff)
}
