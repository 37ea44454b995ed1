package ui

import "strings"

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single row of block characters, newest
// on the right, at most width cells wide. A flat series renders at
// mid-height so the line stays visible.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var sb strings.Builder
	span := hi - lo
	for _, v := range values {
		idx := len(sparkTicks) / 2
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkTicks)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(sparkTicks) {
				idx = len(sparkTicks) - 1
			}
		}
		sb.WriteRune(sparkTicks[idx])
	}
	return sb.String()
}
