// Package api provides the HTTP client and wire types for the MindBot
// triage backend. Every endpoint speaks JSON; a non-2xx status becomes an
// error whose message is the response body text.
package api

// Vitals is one server-reported snapshot of simulated measurements. A
// snapshot fully replaces displayed state; fields are never merged.
type Vitals struct {
	PulseBPM      float64 `json:"pulse_bpm"`
	TemperatureC  float64 `json:"temperature_c"`
	OxygenPercent float64 `json:"oxygen_percent"`
	AirQualityPPM float64 `json:"air_quality_ppm"`
}

// Risk is the server-derived triage severity for the current session.
type Risk struct {
	RiskLevel      string  `json:"risk_level"`
	RiskScore      float64 `json:"risk_score"`
	Recommendation string  `json:"recommendation,omitempty"`
	HospitalNeeded bool    `json:"hospital_needed,omitempty"`
	EmergencyMode  bool    `json:"emergency_mode,omitempty"`
}

// Hospital describes one facility from the hospitals catalog. DistanceKM
// and ETAMinutes are present only on nearest-hospital results.
type Hospital struct {
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
	DistanceKM float64 `json:"distance_km,omitempty"`
	ETAMinutes int     `json:"eta_minutes,omitempty"`
}

// VitalsResponse is returned by GET /api/vitals.
type VitalsResponse struct {
	SessionID string   `json:"session_id"`
	Vitals    Vitals   `json:"vitals"`
	Alerts    []string `json:"alerts,omitempty"`
	Risk      *Risk    `json:"risk,omitempty"`
	TS        float64  `json:"ts,omitempty"`
}

// AskRequest is the body of POST /api/ask_ai.
type AskRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// AutoEmergency signals that the server escalated a chat turn on its own.
type AutoEmergency struct {
	Enabled         bool      `json:"enabled"`
	NearestHospital *Hospital `json:"nearest_hospital,omitempty"`
}

// AskResponse is returned by POST /api/ask_ai. Vitals and Risk accompany
// the reply when the server generated a fresh snapshot for the turn.
type AskResponse struct {
	SessionID     string         `json:"session_id"`
	Reply         string         `json:"reply"`
	Vitals        *Vitals        `json:"vitals,omitempty"`
	Alerts        []string       `json:"alerts,omitempty"`
	Risk          *Risk          `json:"risk,omitempty"`
	AutoEmergency *AutoEmergency `json:"auto_emergency,omitempty"`
}

// SOSRequest is the body of POST /api/sos.
type SOSRequest struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	SessionID string  `json:"session_id,omitempty"`
}

// SOSResponse is returned by POST /api/sos.
type SOSResponse struct {
	SessionID       string    `json:"session_id"`
	NearestHospital *Hospital `json:"nearest_hospital"`
}

// AdminStats is returned by GET /api/admin/stats.
type AdminStats struct {
	TotalUsers       int     `json:"total_users"`
	Emergencies      int     `json:"emergencies"`
	AverageRiskScore float64 `json:"average_risk_score"`
}
