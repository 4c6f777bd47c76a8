package runner

import (
	"testing"
	"time"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if s.Total != 0 || s.Passed != 0 || s.Failed != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero counts", s)
	}
	if s.PassRate != 0 {
		t.Errorf("PassRate = %v, want 0", s.PassRate)
	}
	if !s.AllPassed() {
		t.Error("AllPassed() = false for empty invocation, want true")
	}
}

func TestSummarizeMixed(t *testing.T) {
	outcomes := []Outcome{
		{Index: 0, Success: true, Duration: 100 * time.Millisecond, Events: 3},
		{Index: 1, Success: false, Duration: 300 * time.Millisecond, Events: 5, Err: "click timed out"},
		{Index: 2, Success: true, Duration: 200 * time.Millisecond, Events: 1},
		{Index: 3, Success: true, Duration: 400 * time.Millisecond, Events: 0},
	}

	s := Summarize(outcomes)

	if s.Total != 4 || s.Passed != 3 || s.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", s.Total, s.Passed, s.Failed)
	}
	if s.PassRate != 0.75 {
		t.Errorf("PassRate = %v, want 0.75", s.PassRate)
	}
	if s.MinDuration != 100*time.Millisecond {
		t.Errorf("MinDuration = %v, want 100ms", s.MinDuration)
	}
	if s.MaxDuration != 400*time.Millisecond {
		t.Errorf("MaxDuration = %v, want 400ms", s.MaxDuration)
	}
	if s.MeanDuration != 250*time.Millisecond {
		t.Errorf("MeanDuration = %v, want 250ms", s.MeanDuration)
	}
	if s.TotalDuration != time.Second {
		t.Errorf("TotalDuration = %v, want 1s", s.TotalDuration)
	}
	if s.Events != 9 {
		t.Errorf("Events = %d, want 9", s.Events)
	}
	if s.AllPassed() {
		t.Error("AllPassed() = true with a failed run, want false")
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	forward := []Outcome{
		{Index: 0, Success: true, Duration: 50 * time.Millisecond},
		{Index: 1, Success: false, Duration: 150 * time.Millisecond},
		{Index: 2, Success: true, Duration: 250 * time.Millisecond},
	}
	reversed := []Outcome{forward[2], forward[1], forward[0]}

	if Summarize(forward) != Summarize(reversed) {
		t.Error("Summarize() should not depend on outcome order")
	}
}

func TestFirstFailure(t *testing.T) {
	outcomes := []Outcome{
		{Index: 0, Success: true},
		{Index: 1, Success: false, Err: "overlay blocked input"},
		{Index: 2, Success: false, Err: "network offline"},
	}

	got, ok := FirstFailure(outcomes)
	if !ok {
		t.Fatal("FirstFailure() ok = false, want true")
	}
	if got.Index != 1 || got.Err != "overlay blocked input" {
		t.Errorf("FirstFailure() = %+v, want outcome at index 1", got)
	}

	if _, ok := FirstFailure([]Outcome{{Success: true}}); ok {
		t.Error("FirstFailure() ok = true with all runs passing, want false")
	}
}
