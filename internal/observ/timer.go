package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer records how long each phase of a run took, in start order. A nil
// *Timer is valid and records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []phase
}

type phase struct {
	name string
	note string
	dur  time.Duration
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{} }

// Start opens a phase and returns the function that closes it. Only the
// first call of the returned function counts.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name})
	t.mu.Unlock()

	began := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() {
			elapsed := time.Since(began)
			t.mu.Lock()
			t.phases[idx].dur = elapsed
			t.phases[idx].note = note
			t.mu.Unlock()
		})
	}
}

// PhaseReport is the serialisable form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates all phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases. Phases still open count as zero.
func (t *Timer) Report() Report {
	var rep Report
	if t == nil {
		return rep
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.phases {
		ms := millis(p.dur)
		rep.TotalMS += ms
		rep.Phases = append(rep.Phases, PhaseReport{Name: p.name, DurationMS: ms, Note: p.note})
	}
	return rep
}

// Summary renders the report as an aligned table for --timings.
func (t *Timer) Summary() string {
	rep := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			b.WriteString("  // " + note)
		}
		b.WriteByte('\n')
	}
	for _, p := range rep.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", rep.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
