package transcript

import "fmt"

// Window is one chunk of audio to extract and transcribe.
type Window struct {
	Index    int
	Start    float64
	Duration float64
}

// End returns the position where the window stops.
func (w Window) End() float64 {
	return w.Start + w.Duration
}

// Plan describes how a stream of known duration is sliced into overlapping
// fixed-size chunks. Consecutive windows advance by Stride = chunk - overlap;
// the final window is truncated at the stream end.
type Plan struct {
	TotalSeconds   float64
	ChunkSeconds   int
	OverlapSeconds int
}

// NewPlan validates the slicing parameters and returns a Plan.
func NewPlan(totalSeconds float64, chunkSeconds, overlapSeconds int) (Plan, error) {
	if totalSeconds <= 0 {
		return Plan{}, fmt.Errorf("total duration must be positive, got %.3f", totalSeconds)
	}
	if chunkSeconds <= 0 {
		return Plan{}, fmt.Errorf("chunk duration must be positive, got %d", chunkSeconds)
	}
	if overlapSeconds < 0 || overlapSeconds >= chunkSeconds {
		return Plan{}, fmt.Errorf("overlap %d must be in [0, %d)", overlapSeconds, chunkSeconds)
	}
	return Plan{
		TotalSeconds:   totalSeconds,
		ChunkSeconds:   chunkSeconds,
		OverlapSeconds: overlapSeconds,
	}, nil
}

// Stride returns the distance in seconds between consecutive window starts.
func (p Plan) Stride() int {
	return p.ChunkSeconds - p.OverlapSeconds
}

// Count returns the number of windows in the plan.
func (p Plan) Count() int {
	stride := float64(p.Stride())
	count := 0
	for pos := 0.0; pos < p.TotalSeconds; pos += stride {
		count++
	}
	return count
}

// Window returns the window at the given index.
func (p Plan) Window(index int) Window {
	start := float64(index * p.Stride())
	duration := float64(p.ChunkSeconds)
	if remaining := p.TotalSeconds - start; remaining < duration {
		duration = remaining
	}
	return Window{Index: index, Start: start, Duration: duration}
}

// Windows materializes every window in order.
func (p Plan) Windows() []Window {
	count := p.Count()
	windows := make([]Window, 0, count)
	for i := 0; i < count; i++ {
		windows = append(windows, p.Window(i))
	}
	return windows
}
