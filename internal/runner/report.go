package runner

import "time"

// Summary aggregates the outcomes of a completed invocation.
type Summary struct {
	Total  int
	Passed int
	Failed int

	// PassRate is Passed/Total in [0,1]. Zero runs yield zero.
	PassRate float64

	MinDuration   time.Duration
	MaxDuration   time.Duration
	MeanDuration  time.Duration
	TotalDuration time.Duration

	// Events is the total number of chaos events across all runs.
	Events int
}

// AllPassed reports whether every run succeeded. An empty invocation counts
// as passed.
func (s Summary) AllPassed() bool {
	return s.Failed == 0
}

// Summarize reduces outcomes to a summary. The reduction is pure and does
// not depend on outcome order.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	if s.Total == 0 {
		return s
	}

	s.MinDuration = outcomes[0].Duration
	for _, o := range outcomes {
		if o.Success {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Events += o.Events
		s.TotalDuration += o.Duration
		if o.Duration < s.MinDuration {
			s.MinDuration = o.Duration
		}
		if o.Duration > s.MaxDuration {
			s.MaxDuration = o.Duration
		}
	}

	s.PassRate = float64(s.Passed) / float64(s.Total)
	s.MeanDuration = s.TotalDuration / time.Duration(s.Total)
	return s
}

// FirstFailure returns the lowest-index failed outcome, or false when every
// run passed.
func FirstFailure(outcomes []Outcome) (Outcome, bool) {
	for _, o := range outcomes {
		if !o.Success {
			return o, true
		}
	}
	return Outcome{}, false
}
