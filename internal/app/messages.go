package app

import (
	"github.com/mindbot/monitor/internal/api"
	"github.com/mindbot/monitor/internal/db"
)

// StoreOpenedMsg carries the local store and its persisted state.
type StoreOpenedMsg struct {
	Store      *db.Store
	SessionID  string
	Theme      string
	Transcript []db.Message
	Err        error
}

// PollTickMsg fires on the fixed polling interval.
type PollTickMsg struct{}

// VitalsMsg carries the result of one vitals fetch. Boot marks the
// initial fetch, whose failure is surfaced instead of suppressed.
type VitalsMsg struct {
	Resp api.VitalsResponse
	Err  error
	Boot bool
}

// HospitalsMsg carries the hospitals catalog loaded at boot.
type HospitalsMsg struct {
	Hospitals []api.Hospital
	Err       error
}

// AskResponseMsg carries the result of one assistant turn.
type AskResponseMsg struct {
	Resp api.AskResponse
	Err  error
}

// TypeTickMsg advances the typewriter reveal. Seq guards against ticks
// from a superseded reveal.
type TypeTickMsg struct {
	Seq int
}

// FrameTickMsg drives animation sampling while any animation is live.
type FrameTickMsg struct{}

// SOSResultMsg carries the result of an SOS submission.
type SOSResultMsg struct {
	Resp api.SOSResponse
	Err  error
}

// ReportOpenedMsg reports whether the browser launch succeeded.
type ReportOpenedMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
