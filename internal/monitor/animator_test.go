package monitor

import (
	"testing"
	"time"
)

func TestAnimationConvergesToTarget(t *testing.T) {
	a := NewAnimator(DefaultAnimationDuration)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	an := a.Animate("pulse", 95.5, 1)

	end := start.Add(DefaultAnimationDuration)
	if got := an.ValueAt(end); got != 95.5 {
		t.Errorf("value at completion = %v, want 95.5", got)
	}
	if !an.Done(end) {
		t.Error("animation should be done at its duration")
	}
	if got := an.ValueAt(end.Add(time.Hour)); got != 95.5 {
		t.Errorf("value after completion = %v, want 95.5", got)
	}
}

func TestAnimationEasesOut(t *testing.T) {
	a := NewAnimator(400 * time.Millisecond)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	an := a.Animate("pulse", 100, 0)

	// Cubic ease-out at t=0.5: 1-(0.5)^3 = 0.875
	mid := an.ValueAt(start.Add(200 * time.Millisecond))
	if mid < 87.4 || mid > 87.6 {
		t.Errorf("value at t=0.5 = %v, want ~87.5", mid)
	}

	// Past half the motion should already be covered at t=0.25
	early := an.ValueAt(start.Add(100 * time.Millisecond))
	if early <= 50 {
		t.Errorf("value at t=0.25 = %v, ease-out should front-load motion", early)
	}
}

func TestAnimateRebasesFromPreviousTarget(t *testing.T) {
	a := NewAnimator(DefaultAnimationDuration)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	a.Animate("pulse", 80, 1)
	// Retarget before the first animation finishes: the new animation
	// must start from 80, not from whatever was displayed.
	an := a.Animate("pulse", 120, 1)

	if got := an.ValueAt(start); got != 80 {
		t.Errorf("start value = %v, want previous target 80", got)
	}
	if got := an.Target(); got != 120 {
		t.Errorf("target = %v, want 120", got)
	}
}

func TestAnimateDefaultsToZeroStart(t *testing.T) {
	a := NewAnimator(DefaultAnimationDuration)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	an := a.Animate("oxygen", 97, 0)
	if got := an.ValueAt(start); got != 0 {
		t.Errorf("start value = %v, want 0 for a never-animated field", got)
	}
}

func TestZeroDurationConvergesImmediately(t *testing.T) {
	a := NewAnimator(0)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	an := a.Animate("temp", 37.2, 1)
	if got := an.ValueAt(start); got != 37.2 {
		t.Errorf("value = %v, want 37.2 on the first sample", got)
	}
	if !an.Done(start) {
		t.Error("zero-duration animation should be done immediately")
	}
}

func TestAnimationFormat(t *testing.T) {
	a := NewAnimator(DefaultAnimationDuration)
	an := a.Animate("temp", 37.25, 1)

	if got := an.Format(37.25); got != "37.2" {
		t.Errorf("Format = %q, want %q", got, "37.2")
	}

	an0 := a.Animate("air", 523.7, 0)
	if got := an0.Format(523.7); got != "524" {
		t.Errorf("Format = %q, want %q", got, "524")
	}
}

func TestFieldsAnimateIndependently(t *testing.T) {
	a := NewAnimator(DefaultAnimationDuration)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	a.Animate("pulse", 80, 1)
	an := a.Animate("temp", 36.8, 1)

	if got := an.ValueAt(start); got != 0 {
		t.Errorf("temp start = %v, want 0; fields must not share memoized targets", got)
	}
}
