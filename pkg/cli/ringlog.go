package cli

import "sync"

// RingLog is a thread-safe fixed-capacity ring of log lines. Appending
// past the capacity overwrites the oldest line.
type RingLog struct {
	mu    sync.Mutex
	lines []string
	head  int
	full  bool
}

// NewRingLog creates a ring log holding at most capacity lines.
func NewRingLog(capacity int) *RingLog {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingLog{lines: make([]string, capacity)}
}

// Append adds a line, evicting the oldest line when full.
func (r *RingLog) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.head] = line
	r.head = (r.head + 1) % len(r.lines)
	if r.head == 0 {
		r.full = true
	}
}

// Lines returns the buffered lines, oldest first.
func (r *RingLog) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]string, r.head)
		copy(out, r.lines[:r.head])
		return out
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.head:]...)
	out = append(out, r.lines[:r.head]...)
	return out
}

// Len returns the number of buffered lines.
func (r *RingLog) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.lines)
	}
	return r.head
}

// Reset discards all buffered lines.
func (r *RingLog) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.full = false
}
