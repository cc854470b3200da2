package runner

// Summary is the pass/fail tally of a run. It is a value: Add returns a new
// Summary and never modifies the receiver.
type Summary struct {
	Passed int
	Failed int
}

// Add returns the summary with one more result counted
func (s Summary) Add(r *FixtureResult) Summary {
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
	return s
}

// Tally folds results into a Summary
func Tally(results []*FixtureResult) Summary {
	var s Summary
	for _, r := range results {
		s = s.Add(r)
	}
	return s
}

// Total returns the number of fixtures counted
func (s Summary) Total() int {
	return s.Passed + s.Failed
}

// PassedPercent returns the share of passed fixtures in percent, 0 when
// nothing ran
func (s Summary) PassedPercent() float64 {
	return percent(s.Passed, s.Total())
}

// FailedPercent returns the share of failed fixtures in percent, 0 when
// nothing ran
func (s Summary) FailedPercent() float64 {
	return percent(s.Failed, s.Total())
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
