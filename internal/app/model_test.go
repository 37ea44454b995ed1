package app

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mindbot/monitor/internal/api"
	"github.com/mindbot/monitor/internal/db"
	"github.com/mindbot/monitor/internal/monitor"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Config{
		Client: api.New("http://127.0.0.1:1"),
		Beeper: monitor.BellBeeper{W: io.Discard},
	})
	m.width = 100
	m.height = 30
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func sampleVitals() api.Vitals {
	return api.Vitals{
		PulseBPM:      125,
		TemperatureC:  37.1,
		OxygenPercent: 97.4,
		AirQualityPPM: 512,
	}
}

func TestEmptyChatSendIsNoOp(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty send produced a command")
	}
	if len(m.chat) != 0 {
		t.Errorf("chat has %d entries, want 0", len(m.chat))
	}

	m.input = "   "
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("whitespace-only send produced a command")
	}
	if m.busy {
		t.Error("whitespace-only send locked input")
	}
}

func TestChatInputEditing(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	if m.input != "hi" {
		t.Errorf("input = %q, want %q", m.input, "hi")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.input != "h" {
		t.Errorf("after backspace input = %q, want %q", m.input, "h")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.input != "" {
		t.Errorf("after esc input = %q, want empty", m.input)
	}
}

func TestSendChatLocksInput(t *testing.T) {
	m := newTestModel(t)
	m.input = "I feel dizzy"

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("send produced no command")
	}
	if !m.busy || !m.typing {
		t.Error("send did not enter busy/typing state")
	}
	if m.input != "" {
		t.Errorf("input not cleared, got %q", m.input)
	}
	if len(m.chat) != 1 || m.chat[0].Role != db.RoleUser || m.chat[0].Text != "I feel dizzy" {
		t.Errorf("chat = %+v, want single user entry", m.chat)
	}

	// Keystrokes while busy are dropped.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.input != "" {
		t.Errorf("busy input accepted keystroke, got %q", m.input)
	}
}

func TestVitalsMsgAppliesSnapshot(t *testing.T) {
	m := newTestModel(t)

	risk := &api.Risk{RiskLevel: "Medium", RiskScore: 42, Recommendation: "Rest and hydrate"}
	m, _ = update(t, m, VitalsMsg{
		Resp: api.VitalsResponse{SessionID: "abc-123", Vitals: sampleVitals(), Risk: risk},
	})

	if !m.booted {
		t.Error("booted not set after successful fetch")
	}
	if m.sessionID != "abc-123" {
		t.Errorf("sessionID = %q, want abc-123", m.sessionID)
	}
	if m.pulsePill.Severity != monitor.SeverityWarn {
		t.Errorf("pulse pill severity = %v, want warn for 125 bpm", m.pulsePill.Severity)
	}
	if m.tempPill.Severity != monitor.SeverityOK {
		t.Errorf("temp pill severity = %v, want ok for 37.1", m.tempPill.Severity)
	}
	if m.risk != monitor.RiskMedium {
		t.Errorf("risk = %v, want medium", m.risk)
	}
	if m.scoreText != "Medium (score 42)" {
		t.Errorf("scoreText = %q", m.scoreText)
	}
	if m.recommend != "Rest and hydrate" {
		t.Errorf("recommend = %q", m.recommend)
	}
	if m.buffer.Len() != 1 {
		t.Errorf("buffer len = %d, want 1", m.buffer.Len())
	}
	if an := m.anims[fieldPulse]; an == nil || an.Target() != 125 {
		t.Error("pulse animation not targeting 125")
	}
}

func TestLastAppliedSnapshotWins(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, VitalsMsg{Resp: api.VitalsResponse{Vitals: sampleVitals()}})

	second := sampleVitals()
	second.PulseBPM = 80
	m, _ = update(t, m, VitalsMsg{Resp: api.VitalsResponse{Vitals: second}})

	if an := m.anims[fieldPulse]; an.Target() != 80 {
		t.Errorf("pulse target = %v, want 80 from the later apply", an.Target())
	}
	if m.buffer.Len() != 2 {
		t.Errorf("buffer len = %d, want 2", m.buffer.Len())
	}
}

func TestBootFailureSurfaced(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, VitalsMsg{Err: errors.New("connection refused"), Boot: true})
	if m.errorMessage == "" {
		t.Error("boot failure not surfaced")
	}
	if cmd == nil {
		t.Error("boot failure did not schedule the transient clear")
	}
	if m.booted {
		t.Error("booted set despite boot failure")
	}
}

func TestSteadyStateFailureSuppressed(t *testing.T) {
	m := newTestModel(t)
	m.booted = true

	m, _ = update(t, m, VitalsMsg{Err: errors.New("timeout"), Boot: false})
	if m.errorMessage != "" {
		t.Errorf("steady-state failure surfaced: %q", m.errorMessage)
	}
}

func TestTransientErrorClears(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, VitalsMsg{Err: errors.New("boom"), Boot: true})

	m, _ = update(t, m, ClearTransientErrorMsg{})
	if m.errorMessage != "" {
		t.Errorf("transient error not cleared: %q", m.errorMessage)
	}
}

func TestAskResponseRevealsBeforeApplying(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.typing = true

	vitals := sampleVitals()
	m, cmd := update(t, m, AskResponseMsg{
		Resp: api.AskResponse{
			SessionID: "s1",
			Reply:     "Hi",
			Vitals:    &vitals,
		},
	})
	if cmd == nil {
		t.Fatal("reveal not started")
	}
	if m.typing {
		t.Error("typing indicator still on after reply arrived")
	}
	if !m.busy {
		t.Error("input re-enabled before reveal finished")
	}
	if m.pending == nil {
		t.Fatal("snapshot not deferred for the reveal")
	}
	if m.anims[fieldPulse] != nil {
		t.Error("snapshot applied before reveal finished")
	}

	seq := m.typeSeq
	m, _ = update(t, m, TypeTickMsg{Seq: seq}) // reveals "H"
	if !m.busy {
		t.Error("input re-enabled mid-reveal")
	}
	m, _ = update(t, m, TypeTickMsg{Seq: seq}) // reveals "i", finishes

	if m.busy {
		t.Error("input still disabled after reveal finished")
	}
	if m.pending != nil {
		t.Error("pending snapshot not consumed")
	}
	if an := m.anims[fieldPulse]; an == nil || an.Target() != 125 {
		t.Error("deferred snapshot not applied after reveal")
	}
}

func TestStaleTypeTickIgnored(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m, _ = update(t, m, AskResponseMsg{Resp: api.AskResponse{Reply: "Hello"}})

	m, _ = update(t, m, TypeTickMsg{Seq: m.typeSeq - 1})
	if m.revealed != 0 {
		t.Errorf("stale tick advanced reveal to %d", m.revealed)
	}
}

func TestAskFailureReenablesInput(t *testing.T) {
	m := newTestModel(t)
	m.busy = true
	m.typing = true

	m, _ = update(t, m, AskResponseMsg{Err: errors.New("server error")})
	if m.busy || m.typing {
		t.Error("failed turn left input locked")
	}
	if m.errorMessage == "" {
		t.Error("failed turn not surfaced")
	}
}

func TestAutoEmergencyAfterReveal(t *testing.T) {
	m := newTestModel(t)
	m.busy = true

	m, _ = update(t, m, AskResponseMsg{
		Resp: api.AskResponse{
			Reply: "!",
			AutoEmergency: &api.AutoEmergency{
				Enabled:         true,
				NearestHospital: &api.Hospital{Name: "Beni Suef General"},
			},
		},
	})
	if m.emergency != nil {
		t.Error("emergency shown before reveal finished")
	}

	m, _ = update(t, m, TypeTickMsg{Seq: m.typeSeq})
	if m.emergency == nil || m.emergency.Name != "Beni Suef General" {
		t.Errorf("emergency = %+v, want Beni Suef General", m.emergency)
	}
	if m.emergencyVia != "auto" {
		t.Errorf("emergencyVia = %q, want auto", m.emergencyVia)
	}
}

func TestSOSResult(t *testing.T) {
	m := newTestModel(t)
	m.sosInFlight = true

	m, _ = update(t, m, SOSResultMsg{
		Resp: api.SOSResponse{
			SessionID:       "s9",
			NearestHospital: &api.Hospital{Name: "Beni Suef General", DistanceKM: 2.4, ETAMinutes: 7},
		},
	})
	if m.sosInFlight {
		t.Error("sosInFlight not cleared")
	}
	if m.emergency == nil || m.emergency.Name != "Beni Suef General" {
		t.Errorf("emergency = %+v", m.emergency)
	}
	if m.emergencyVia != "sos" {
		t.Errorf("emergencyVia = %q, want sos", m.emergencyVia)
	}
	if m.sessionID != "s9" {
		t.Errorf("sessionID = %q, want s9", m.sessionID)
	}
}

func TestSOSKeyIgnoredWhileInFlight(t *testing.T) {
	m := newTestModel(t)
	m.sosInFlight = true

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("second SOS dispatched while one was in flight")
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedPanel != FocusHospitals {
		t.Errorf("focus = %v, want hospitals", m.focusedPanel)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedPanel != FocusChat {
		t.Errorf("focus = %v, want chat", m.focusedPanel)
	}
}

func TestHospitalNavigationClamps(t *testing.T) {
	m := newTestModel(t)
	m.focusedPanel = FocusHospitals
	m.hospitals = []api.Hospital{{Name: "A"}, {Name: "B"}}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.selectedHospital != 0 {
		t.Errorf("up at top moved selection to %d", m.selectedHospital)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.selectedHospital != 1 {
		t.Errorf("down at bottom moved selection to %d", m.selectedHospital)
	}
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t)

	start := m.theme.Name
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name == start {
		t.Error("theme did not change")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name != start {
		t.Errorf("theme = %q after double toggle, want %q", m.theme.Name, start)
	}
}

func TestStoreOpenedRestoresState(t *testing.T) {
	m := newTestModel(t)

	now := time.Now()
	m, cmd := update(t, m, StoreOpenedMsg{
		SessionID: "restored",
		Theme:     "light",
		Transcript: []db.Message{
			{Role: db.RoleUser, Content: "hello", CreatedAt: now},
			{Role: db.RoleAssistant, Content: "hi there", CreatedAt: now},
		},
	})
	if cmd == nil {
		t.Fatal("boot commands not issued")
	}
	if m.sessionID != "restored" {
		t.Errorf("sessionID = %q, want restored", m.sessionID)
	}
	if m.theme.Name != "light" {
		t.Errorf("theme = %q, want light", m.theme.Name)
	}
	if len(m.chat) != 2 || m.chat[1].Text != "hi there" {
		t.Errorf("chat = %+v, want restored transcript", m.chat)
	}
}

func TestStoreOpenFailureStillBoots(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, StoreOpenedMsg{Err: errors.New("permission denied")})
	if cmd == nil {
		t.Error("store failure blocked the boot fetch")
	}
	if m.store != nil {
		t.Error("store set despite open failure")
	}
}

func TestViewRendersCoreSections(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, VitalsMsg{
		Resp: api.VitalsResponse{
			SessionID: "abc-123",
			Vitals:    sampleVitals(),
			Risk:      &api.Risk{RiskLevel: "Critical", RiskScore: 8},
		},
	})

	out := m.View()
	for _, want := range []string{"MINDBOT MONITOR", "PULSE", "HOSPITALS", "ASSISTANT", "Critical (score 8)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
