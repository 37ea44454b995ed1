package app

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cli/browser"
	"github.com/mindbot/monitor/internal/api"
	"github.com/mindbot/monitor/internal/db"
	"github.com/mindbot/monitor/internal/geo"
	"github.com/mindbot/monitor/internal/monitor"
	"github.com/mindbot/monitor/internal/ui"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusChat PanelFocus = iota
	FocusHospitals
)

// Timing constants for the engine loops.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultBufferSize   = 30
	frameInterval       = 40 * time.Millisecond
	typeInterval        = 30 * time.Millisecond
	requestTimeout      = 12 * time.Second
	transcriptLimit     = 50
)

// Animated field names.
const (
	fieldPulse  = "pulse"
	fieldTemp   = "temp"
	fieldOxygen = "oxygen"
	fieldAir    = "air"
)

// ChatEntry is one rendered transcript line.
type ChatEntry struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// Config wires the model's collaborators.
type Config struct {
	Client       *api.Client
	Locator      *geo.Resolver
	Logger       *zap.Logger
	Beeper       monitor.Beeper
	DBPath       string
	PollInterval time.Duration
	BufferSize   int
}

// Model is the root bubbletea model for the monitor TUI.
type Model struct {
	// Collaborators
	client  *api.Client
	locator *geo.Resolver
	log     *zap.Logger
	store   *db.Store
	dbPath  string

	// Core engine
	animator     *monitor.Animator
	buffer       *monitor.Buffer
	evaluator    *monitor.Evaluator
	pollInterval time.Duration

	// Session
	sessionID string

	// Vitals display
	anims       map[string]*monitor.Animation
	pulsePill   monitor.Pill
	tempPill    monitor.Pill
	risk        monitor.RiskState
	scoreText   string
	recommend   string
	lastUpdated time.Time
	booted      bool
	animating   bool

	// Assistant session
	input       string
	chat        []ChatEntry
	busy        bool
	typing      bool
	typeSeq     int
	revealEntry int
	revealed    int
	pending     *api.AskResponse

	// SOS / emergency
	sosInFlight bool
	emergency   *api.Hospital
	emergencyVia string

	// Hospitals catalog
	hospitals        []api.Hospital
	selectedHospital int

	// UI state
	theme          ui.Theme
	focusedPanel   PanelFocus
	width          int
	height         int
	statusText     string
	errorMessage   string
	errorTransient bool
}

// New creates a Model with default state.
func New(cfg Config) Model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Beeper == nil {
		cfg.Beeper = monitor.BellBeeper{W: os.Stderr}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = db.DefaultDBPath()
	}
	if cfg.Locator == nil {
		cfg.Locator = geo.NewResolver(nil)
	}

	return Model{
		client:       cfg.Client,
		locator:      cfg.Locator,
		log:          cfg.Logger,
		dbPath:       cfg.DBPath,
		animator:     monitor.NewAnimator(monitor.DefaultAnimationDuration),
		buffer:       monitor.NewBuffer(cfg.BufferSize),
		evaluator:    monitor.NewEvaluator(cfg.Beeper, monitor.DefaultCueInterval),
		pollInterval: cfg.PollInterval,
		anims:        make(map[string]*monitor.Animation),
		theme:        ui.Dark(),
		focusedPanel: FocusChat,
		revealEntry:  -1,
		statusText:   "Connecting to backend...",
	}
}

// Init opens the local store; the boot fetch follows once persisted
// state is loaded.
func (m Model) Init() tea.Cmd {
	return openStoreCmd(m.dbPath)
}

// openStoreCmd opens the SQLite store and loads persisted state.
func openStoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		store, err := db.Open(path)
		if err != nil {
			return StoreOpenedMsg{Err: err}
		}
		sessionID, _ := store.SessionID()
		theme, _ := store.Theme()
		var transcript []db.Message
		if sessionID != "" {
			transcript, _ = store.MessagesForSession(sessionID, transcriptLimit)
		}
		return StoreOpenedMsg{
			Store:      store,
			SessionID:  sessionID,
			Theme:      theme,
			Transcript: transcript,
		}
	}
}

// fetchVitalsCmd performs one vitals poll.
func fetchVitalsCmd(client *api.Client, sessionID string, boot bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Vitals(ctx, sessionID)
		return VitalsMsg{Resp: resp, Err: err, Boot: boot}
	}
}

// pollTickCmd schedules the next interval poll. The interval is the
// only retry mechanism; failed polls are not rescheduled early.
func pollTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return PollTickMsg{}
	})
}

// hospitalsCmd loads the hospitals catalog.
func hospitalsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		hospitals, err := client.Hospitals(ctx)
		return HospitalsMsg{Hospitals: hospitals, Err: err}
	}
}

// askCmd sends one assistant turn.
func askCmd(client *api.Client, req api.AskRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.AskAI(ctx, req)
		return AskResponseMsg{Resp: resp, Err: err}
	}
}

// sosCmd resolves the location and submits the SOS request. Location
// resolution never fails; the resolver substitutes its fallback.
func sosCmd(client *api.Client, locator *geo.Resolver, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), geo.DefaultTimeout+requestTimeout)
		defer cancel()
		loc := locator.Resolve(ctx)
		resp, err := client.SOS(ctx, api.SOSRequest{Lat: loc.Lat, Lng: loc.Lng, SessionID: sessionID})
		return SOSResultMsg{Resp: resp, Err: err}
	}
}

// openReportCmd opens the session report in the default browser.
func openReportCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return ReportOpenedMsg{Err: browser.OpenURL(url)}
	}
}

// frameTickCmd drives animation sampling.
func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return FrameTickMsg{}
	})
}

// typeTickCmd advances the typewriter reveal for the given sequence.
func typeTickCmd(seq int) tea.Cmd {
	return tea.Tick(typeInterval, func(time.Time) tea.Msg {
		return TypeTickMsg{Seq: seq}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// persistSessionCmd stores a server-issued session id.
func persistSessionCmd(store *db.Store, id string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.SetSessionID(id)
		return nil
	}
}

// persistMessageCmd appends a transcript entry to the local store.
func persistMessageCmd(store *db.Store, sessionID, role, content string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.SaveMessage(sessionID, role, content)
		return nil
	}
}

// persistThemeCmd stores the theme preference.
func persistThemeCmd(store *db.Store, name string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.SetTheme(name)
		return nil
	}
}

// Update processes messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StoreOpenedMsg:
		if msg.Err != nil {
			m.log.Warn("local store unavailable", zap.Error(msg.Err))
		} else {
			m.store = msg.Store
			m.sessionID = msg.SessionID
			m.theme = ui.ByName(msg.Theme)
			for _, entry := range msg.Transcript {
				m.chat = append(m.chat, ChatEntry{
					Role:      entry.Role,
					Text:      entry.Content,
					Timestamp: entry.CreatedAt,
				})
			}
		}
		// Boot: one immediate fetch plus the interval loop, and the
		// hospitals catalog.
		return m, tea.Batch(
			fetchVitalsCmd(m.client, m.sessionID, true),
			hospitalsCmd(m.client),
			pollTickCmd(m.pollInterval),
		)

	case PollTickMsg:
		// Polls are never queued; an in-flight poll simply overlaps and
		// the later apply wins.
		return m, tea.Batch(
			fetchVitalsCmd(m.client, m.sessionID, false),
			pollTickCmd(m.pollInterval),
		)

	case VitalsMsg:
		if msg.Err != nil {
			if msg.Boot {
				m.statusText = "Backend unreachable"
				return m, m.setTransientError(msg.Err.Error())
			}
			// Steady-state blips stay out of the UI.
			m.log.Warn("poll failed", zap.Error(msg.Err))
			return m, nil
		}
		m.booted = true
		m.statusText = "Live"
		adopt := m.adoptSession(msg.Resp.SessionID)
		apply := m.applySnapshot(msg.Resp.Vitals, msg.Resp.Risk)
		return m, tea.Batch(adopt, apply)

	case FrameTickMsg:
		if m.animationsLive() {
			return m, frameTickCmd()
		}
		m.animating = false
		return m, nil

	case HospitalsMsg:
		if msg.Err != nil {
			return m, m.setTransientError("hospital list: " + msg.Err.Error())
		}
		m.hospitals = msg.Hospitals
		if m.selectedHospital >= len(m.hospitals) {
			m.selectedHospital = max(0, len(m.hospitals)-1)
		}
		return m, nil

	case AskResponseMsg:
		m.typing = false
		if msg.Err != nil {
			m.busy = false
			return m, m.setTransientError(msg.Err.Error())
		}
		adopt := m.adoptSession(msg.Resp.SessionID)
		m.chat = append(m.chat, ChatEntry{
			Role:      db.RoleAssistant,
			Text:      msg.Resp.Reply,
			Timestamp: time.Now(),
		})
		// Reveal the reply before applying the snapshot; input stays
		// disabled until the reveal completes.
		m.typeSeq++
		m.revealEntry = len(m.chat) - 1
		m.revealed = 0
		resp := msg.Resp
		m.pending = &resp
		return m, tea.Batch(
			adopt,
			persistMessageCmd(m.store, m.sessionID, db.RoleAssistant, resp.Reply),
			typeTickCmd(m.typeSeq),
		)

	case TypeTickMsg:
		if msg.Seq != m.typeSeq || m.revealEntry < 0 {
			return m, nil // superseded reveal
		}
		m.revealed++
		if m.revealed < len([]rune(m.chat[m.revealEntry].Text)) {
			return m, typeTickCmd(msg.Seq)
		}
		return m, m.finishReveal()

	case SOSResultMsg:
		m.sosInFlight = false
		if msg.Err != nil {
			return m, m.setTransientError("SOS: " + msg.Err.Error())
		}
		m.emergency = msg.Resp.NearestHospital
		m.emergencyVia = "sos"
		m.evaluator.ForceCritical()
		return m, m.adoptSession(msg.Resp.SessionID)

	case ReportOpenedMsg:
		if msg.Err != nil {
			return m, m.setTransientError("open report: " + msg.Err.Error())
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// adoptSession takes over a server-issued identifier. The backend is
// the authority; the client never generates its own.
func (m *Model) adoptSession(id string) tea.Cmd {
	if id == "" || id == m.sessionID {
		return nil
	}
	m.sessionID = id
	return persistSessionCmd(m.store, id)
}

// applySnapshot replaces displayed state with one vitals/risk snapshot.
// The sequence is fixed: numeric animations, alert pills, buffer push,
// risk styling. Each apply is self-contained, so overlapping completions
// are last-applied-wins.
func (m *Model) applySnapshot(v api.Vitals, risk *api.Risk) tea.Cmd {
	m.anims[fieldPulse] = m.animator.Animate(fieldPulse, v.PulseBPM, 1)
	m.anims[fieldTemp] = m.animator.Animate(fieldTemp, v.TemperatureC, 1)
	m.anims[fieldOxygen] = m.animator.Animate(fieldOxygen, v.OxygenPercent, 1)
	m.anims[fieldAir] = m.animator.Animate(fieldAir, v.AirQualityPPM, 0)

	eval := m.evaluator.Evaluate(v, risk)
	m.pulsePill = eval.Pulse
	m.tempPill = eval.Temp

	m.buffer.Push(v.PulseBPM)

	m.risk = eval.Risk
	m.scoreText = eval.ScoreText
	if risk != nil {
		m.recommend = risk.Recommendation
	} else {
		m.recommend = ""
	}
	m.lastUpdated = time.Now()

	if !m.animating {
		m.animating = true
		return frameTickCmd()
	}
	return nil
}

// finishReveal completes a typewriter reveal: re-enables input and
// applies the turn's deferred snapshot and emergency result.
func (m *Model) finishReveal() tea.Cmd {
	m.busy = false
	m.revealEntry = -1
	resp := m.pending
	m.pending = nil
	if resp == nil {
		return nil
	}

	var cmd tea.Cmd
	if resp.Vitals != nil {
		cmd = m.applySnapshot(*resp.Vitals, resp.Risk)
	}
	if ae := resp.AutoEmergency; ae != nil && ae.Enabled && ae.NearestHospital != nil {
		m.emergency = ae.NearestHospital
		m.emergencyVia = "auto"
		// The server declared the emergency; cue without waiting for a
		// level transition.
		m.evaluator.ForceCritical()
	}
	return cmd
}

// sendChat submits the current input as an assistant turn. Empty or
// whitespace-only input is a no-op.
func (m Model) sendChat() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input)
	if text == "" || m.busy {
		return m, nil
	}

	m.input = ""
	m.busy = true
	m.typing = true
	m.chat = append(m.chat, ChatEntry{Role: db.RoleUser, Text: text, Timestamp: time.Now()})

	loc := m.locator.Last()
	req := api.AskRequest{
		Message:   text,
		SessionID: m.sessionID,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
	}
	return m, tea.Batch(
		askCmd(m.client, req),
		persistMessageCmd(m.store, m.sessionID, db.RoleUser, text),
	)
}

// triggerSOS starts the SOS flow unless one is already in flight.
func (m Model) triggerSOS() (tea.Model, tea.Cmd) {
	if m.sosInFlight {
		return m, nil
	}
	m.sosInFlight = true
	return m, sosCmd(m.client, m.locator, m.sessionID)
}

// toggleTheme flips between the dark and light palettes and persists
// the choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	if m.theme.Name == ui.ThemeDark {
		m.theme = ui.Light()
	} else {
		m.theme = ui.Dark()
	}
	return m, persistThemeCmd(m.store, m.theme.Name)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		if m.store != nil {
			m.store.Close()
		}
		return m, tea.Quit

	case KeyTab:
		if m.focusedPanel == FocusChat {
			m.focusedPanel = FocusHospitals
		} else {
			m.focusedPanel = FocusChat
		}
		return m, nil

	case KeySOS:
		return m.triggerSOS()

	case KeyTheme:
		return m.toggleTheme()

	case KeyReport:
		return m, openReportCmd(m.client.ReportURL(m.sessionID))
	}

	if m.focusedPanel == FocusHospitals {
		return m.handleHospitalsKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		return m.sendChat()

	case KeyBackspace:
		if !m.busy && m.input != "" {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	case KeyEsc:
		if !m.busy {
			m.input = ""
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !m.busy {
		m.input += string(msg.Runes)
	} else if msg.Type == tea.KeySpace && !m.busy {
		m.input += " "
	}
	return m, nil
}

func (m Model) handleHospitalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.store != nil {
			m.store.Close()
		}
		return m, tea.Quit

	case KeyDown, "down":
		if m.selectedHospital < len(m.hospitals)-1 {
			m.selectedHospital++
		}
		return m, nil

	case KeyUp, "up":
		if m.selectedHospital > 0 {
			m.selectedHospital--
		}
		return m, nil

	case "s":
		return m.triggerSOS()

	case "t":
		return m.toggleTheme()

	case "r":
		return m, openReportCmd(m.client.ReportURL(m.sessionID))
	}
	return m, nil
}

func (m *Model) setTransientError(text string) tea.Cmd {
	m.errorMessage = text
	m.errorTransient = true
	return clearTransientErrorCmd()
}

func (m Model) animationsLive() bool {
	now := time.Now()
	for _, an := range m.anims {
		if an != nil && !an.Done(now) {
			return true
		}
	}
	return false
}
