package monitor

import (
	"fmt"
	"io"
	"time"

	"github.com/mindbot/monitor/internal/api"
)

// Pulse and temperature thresholds mirror the backend's alert rules.
const (
	PulseWarnBPM = 110.0
	FeverTempC   = 38.0
)

// DefaultCueInterval is the minimum spacing between any two audio cues.
const DefaultCueInterval = 1200 * time.Millisecond

// Severity classifies a pill readout.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityDanger
)

// RiskState is the coarse whole-UI styling derived from the risk level.
type RiskState int

const (
	RiskNone RiskState = iota
	RiskLow
	RiskMedium
	RiskCritical
)

// Pill is one discrete alert readout.
type Pill struct {
	Label    string
	Severity Severity
}

// Evaluation is derived from a single snapshot; it lives for exactly one
// render cycle and is never stored.
type Evaluation struct {
	Pulse     Pill
	Temp      Pill
	Risk      RiskState
	ScoreText string
	Cued      bool
}

// Beeper emits the audible cue. Implementations are best-effort; the
// evaluator ignores failures.
type Beeper interface {
	Beep() error
}

// BellBeeper rings the terminal bell. Terminals with the bell disabled
// silently drop it.
type BellBeeper struct {
	W io.Writer
}

// Beep writes the BEL character.
func (b BellBeeper) Beep() error {
	_, err := b.W.Write([]byte{'\a'})
	return err
}

// Evaluator maps vitals/risk snapshots to alert state and gates audio
// cues: a cue fires only on a risk level transition, and never within
// minInterval of the previous cue.
type Evaluator struct {
	beeper      Beeper
	minInterval time.Duration
	now         func() time.Time

	lastLevel string
	lastCue   time.Time
	haveCued  bool
}

// NewEvaluator creates an evaluator ringing beeper at most once per
// minInterval.
func NewEvaluator(beeper Beeper, minInterval time.Duration) *Evaluator {
	return &Evaluator{
		beeper:      beeper,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Evaluate derives the alert state for one snapshot. The same snapshot
// evaluated twice yields identical pills and cues at most once.
func (e *Evaluator) Evaluate(v api.Vitals, risk *api.Risk) Evaluation {
	eval := Evaluation{
		Pulse: pulsePill(v.PulseBPM),
		Temp:  tempPill(v.TemperatureC),
	}

	var level string
	if risk != nil {
		level = risk.RiskLevel
	}
	eval.Risk = ParseRiskState(level)
	if eval.Risk == RiskNone {
		// Absent or unrecognized level clears risk styling and is not a
		// transition.
		return eval
	}

	eval.ScoreText = fmt.Sprintf("%s (score %.0f)", level, risk.RiskScore)
	if e.lastLevel != "" && level != e.lastLevel {
		eval.Cued = e.cue()
	}
	e.lastLevel = level
	return eval
}

// ForceCritical fires the cue regardless of level transitions. Used when
// the server declares an emergency or the user triggers SOS. The minimum
// interval between cues still applies.
func (e *Evaluator) ForceCritical() bool {
	return e.cue()
}

func (e *Evaluator) cue() bool {
	now := e.now()
	if e.haveCued && now.Sub(e.lastCue) < e.minInterval {
		return false
	}
	e.haveCued = true
	e.lastCue = now
	if e.beeper != nil {
		_ = e.beeper.Beep()
	}
	return true
}

// ParseRiskState maps a server risk level to its UI state. Anything
// outside the known levels maps to RiskNone.
func ParseRiskState(level string) RiskState {
	switch level {
	case "Low":
		return RiskLow
	case "Medium":
		return RiskMedium
	case "Critical":
		return RiskCritical
	default:
		return RiskNone
	}
}

func pulsePill(bpm float64) Pill {
	if bpm > PulseWarnBPM {
		return Pill{Label: "High/Warning", Severity: SeverityWarn}
	}
	return Pill{Label: "Normal", Severity: SeverityOK}
}

func tempPill(c float64) Pill {
	if c > FeverTempC {
		return Pill{Label: "Fever", Severity: SeverityDanger}
	}
	return Pill{Label: "Normal", Severity: SeverityOK}
}
