package monitor

import (
	"math"
	"strconv"
	"time"
)

// DefaultAnimationDuration is the fixed reveal time for every animated
// numeric field.
const DefaultAnimationDuration = 420 * time.Millisecond

// Animation interpolates one displayed value toward its target with a
// cubic ease-out curve.
type Animation struct {
	start     float64
	target    float64
	precision int
	startedAt time.Time
	duration  time.Duration
}

// Animator starts animations for named fields. Each field's target is
// memoized the moment Animate is called, so a retarget mid-flight
// rebases from the previous target rather than the stale displayed
// value.
type Animator struct {
	duration time.Duration
	last     map[string]float64
	now      func() time.Time
}

// NewAnimator creates an animator with the given per-animation duration.
func NewAnimator(duration time.Duration) *Animator {
	return &Animator{
		duration: duration,
		last:     make(map[string]float64),
		now:      time.Now,
	}
}

// Animate begins animating field toward target. The previous target (0
// if the field was never animated) becomes the start value.
func (a *Animator) Animate(field string, target float64, precision int) *Animation {
	start := a.last[field]
	a.last[field] = target
	return &Animation{
		start:     start,
		target:    target,
		precision: precision,
		startedAt: a.now(),
		duration:  a.duration,
	}
}

// ValueAt samples the animation at now. The normalized time clamps to
// [0,1], so a zero or negative duration converges on the first sample.
func (an *Animation) ValueAt(now time.Time) float64 {
	t := 1.0
	if an.duration > 0 {
		t = float64(now.Sub(an.startedAt)) / float64(an.duration)
	}
	if t >= 1 {
		return an.target
	}
	if t < 0 {
		t = 0
	}
	eased := 1 - math.Pow(1-t, 3)
	return an.start + (an.target-an.start)*eased
}

// Done reports whether the animation has reached its target at now.
func (an *Animation) Done(now time.Time) bool {
	return an.duration <= 0 || !now.Before(an.startedAt.Add(an.duration))
}

// Target returns the value the animation converges to.
func (an *Animation) Target() float64 {
	return an.target
}

// Format renders v with the animation's decimal precision.
func (an *Animation) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', an.precision, 64)
}
