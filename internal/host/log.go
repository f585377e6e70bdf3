package host

import (
	"fmt"
	"sync"
)

// DefaultLogCapacity is the number of lines a LogBuffer retains by default.
const DefaultLogCapacity = 2000

// LogBuffer is an append-only, bounded log shared by concurrent runs. Once
// the capacity is exceeded the oldest lines are dropped.
type LogBuffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int
}

// NewLogBuffer creates a buffer retaining at most capacity lines. A
// non-positive capacity selects DefaultLogCapacity.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{capacity: capacity}
}

// Push appends one line.
func (b *LogBuffer) Push(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity == 0 {
		b.capacity = DefaultLogCapacity
	}
	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.capacity; over > 0 {
		// Copy down so the backing array does not grow without bound.
		n := copy(b.lines, b.lines[over:])
		clear(b.lines[n:])
		b.lines = b.lines[:n]
	}
}

// Pushf appends one formatted line.
func (b *LogBuffer) Pushf(format string, args ...any) {
	b.Push(fmt.Sprintf(format, args...))
}

// Snapshot returns a copy of the retained lines, oldest first.
func (b *LogBuffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Len returns the number of retained lines.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Capacity returns the retention limit.
func (b *LogBuffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capacity == 0 {
		return DefaultLogCapacity
	}
	return b.capacity
}

// Clear drops every retained line.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
