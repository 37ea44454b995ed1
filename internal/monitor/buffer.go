// Package monitor holds the client-side monitoring core: the rolling
// series buffer, the numeric animator and the alert evaluator.
package monitor

import "time"

// SeriesPoint pairs a wall-clock label with a sampled value.
type SeriesPoint struct {
	Label string
	Value float64
}

// Buffer is a fixed-capacity FIFO of series points feeding the live
// chart. Labels are stamped at push time, independent of server
// timestamps.
type Buffer struct {
	capacity int
	points   []SeriesPoint
	now      func() time.Time
}

// NewBuffer creates a buffer holding at most capacity points.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{capacity: capacity, now: time.Now}
}

// Push stamps value with the current HH:MM:SS label, appends it, and
// evicts from the front while the buffer exceeds capacity.
func (b *Buffer) Push(value float64) {
	b.points = append(b.points, SeriesPoint{
		Label: b.now().Format("15:04:05"),
		Value: value,
	})
	for len(b.points) > b.capacity {
		b.points = b.points[1:]
	}
}

// Points returns the buffered points, oldest first.
func (b *Buffer) Points() []SeriesPoint {
	return b.points
}

// Values returns the buffered values, oldest first.
func (b *Buffer) Values() []float64 {
	vals := make([]float64, len(b.points))
	for i, p := range b.points {
		vals[i] = p.Value
	}
	return vals
}

// Len returns the number of buffered points.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Capacity returns the configured maximum length.
func (b *Buffer) Capacity() int {
	return b.capacity
}
