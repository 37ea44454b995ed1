// Package geo resolves the device's location with a bounded timeout, a
// short-lived position cache and a fixed fallback coordinate, so
// resolution never fails outright.
package geo

import (
	"context"
	"sync"
	"time"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// BeniSuefCenter is the fallback coordinate substituted whenever no
// location source is available or resolution fails.
var BeniSuefCenter = Point{Lat: 29.0661, Lng: 31.0994}

const (
	// DefaultTimeout bounds a single resolution attempt.
	DefaultTimeout = 6 * time.Second
	// DefaultMaxAge is how long a resolved position is reused.
	DefaultMaxAge = 5 * time.Second
)

// Source produces a device position. Implementations may block; the
// resolver bounds them with a deadline and abandons late answers.
type Source func(ctx context.Context) (Point, error)

// Static returns a source pinned to a fixed coordinate.
func Static(p Point) Source {
	return func(context.Context) (Point, error) {
		return p, nil
	}
}

// Resolver resolves the current position. Safe for concurrent use.
type Resolver struct {
	Source   Source
	Timeout  time.Duration
	MaxAge   time.Duration
	Fallback Point

	mu       sync.Mutex
	now      func() time.Time
	cached   Point
	cachedAt time.Time
	resolved bool
}

// NewResolver creates a resolver over source with the default timeout,
// max cache age and fallback. A nil source always yields the fallback.
func NewResolver(source Source) *Resolver {
	return &Resolver{
		Source:   source,
		Timeout:  DefaultTimeout,
		MaxAge:   DefaultMaxAge,
		Fallback: BeniSuefCenter,
		now:      time.Now,
	}
}

// Resolve returns the best available position. A cached position no
// older than MaxAge is reused; otherwise the source is queried under the
// timeout. Denial, timeout or a missing source yield the fallback.
func (r *Resolver) Resolve(ctx context.Context) Point {
	r.mu.Lock()
	if r.resolved && r.now().Sub(r.cachedAt) <= r.MaxAge {
		p := r.cached
		r.mu.Unlock()
		return p
	}
	source := r.Source
	timeout := r.Timeout
	fallback := r.Fallback
	r.mu.Unlock()

	if source == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		p   Point
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		p, err := source(ctx)
		ch <- answer{p, err}
	}()

	select {
	case a := <-ch:
		if a.err != nil {
			return fallback
		}
		r.mu.Lock()
		r.cached = a.p
		r.cachedAt = r.now()
		r.resolved = true
		r.mu.Unlock()
		return a.p
	case <-ctx.Done():
		return fallback
	}
}

// Last returns the most recently resolved position without querying the
// source, or the fallback if nothing was ever resolved. Used to attach a
// best-effort location to assistant turns.
func (r *Resolver) Last() Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.cached
	}
	return r.Fallback
}
