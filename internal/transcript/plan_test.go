package transcript

import "testing"

func TestPlanStride(t *testing.T) {
	plan, err := NewPlan(600, 30, 5)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if got := plan.Stride(); got != 25 {
		t.Errorf("Stride() = %d, want 25", got)
	}
}

func TestPlanWindows(t *testing.T) {
	plan, err := NewPlan(100, 30, 5)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	windows := plan.Windows()
	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	wantStarts := []float64{0, 25, 50, 75}
	for i, w := range windows {
		if w.Index != i {
			t.Errorf("window %d has index %d", i, w.Index)
		}
		if w.Start != wantStarts[i] {
			t.Errorf("window %d starts at %v, want %v", i, w.Start, wantStarts[i])
		}
	}
	// Final window is truncated at the stream end.
	last := windows[len(windows)-1]
	if last.Duration != 25 {
		t.Errorf("final window duration %v, want 25", last.Duration)
	}
	if last.End() != 100 {
		t.Errorf("final window ends at %v, want 100", last.End())
	}
	for _, w := range windows[:len(windows)-1] {
		if w.Duration != 30 {
			t.Errorf("window %d duration %v, want 30", w.Index, w.Duration)
		}
	}
}

func TestPlanShortStream(t *testing.T) {
	plan, err := NewPlan(12, 30, 5)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if got := plan.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
	w := plan.Window(0)
	if w.Start != 0 || w.Duration != 12 {
		t.Errorf("window = %+v, want start 0 duration 12", w)
	}
}

func TestNewPlanRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name    string
		total   float64
		chunk   int
		overlap int
	}{
		{"zero duration", 0, 30, 5},
		{"negative duration", -10, 30, 5},
		{"zero chunk", 100, 0, 0},
		{"overlap equals chunk", 100, 30, 30},
		{"overlap exceeds chunk", 100, 30, 40},
		{"negative overlap", 100, 30, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPlan(tc.total, tc.chunk, tc.overlap); err == nil {
				t.Errorf("NewPlan(%v, %d, %d) should fail", tc.total, tc.chunk, tc.overlap)
			}
		})
	}
}

func TestPlanZeroOverlap(t *testing.T) {
	plan, err := NewPlan(90, 30, 0)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if plan.Stride() != 30 {
		t.Errorf("Stride() = %d, want 30", plan.Stride())
	}
	if plan.Count() != 3 {
		t.Errorf("Count() = %d, want 3", plan.Count())
	}
}
