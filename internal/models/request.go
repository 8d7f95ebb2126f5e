package models

// RiskAssessRequest for POST /api/v1/risk/assess
type RiskAssessRequest struct {
	Items           map[string]int `json:"items"`
	LocationFactors []string       `json:"location_factors"`
	// Location is a free-text place; its derived attributes join LocationFactors.
	Location string `json:"location,omitempty"`
}

// EscalationRequest for POST /api/v1/escalations
type EscalationRequest struct {
	Query        string `json:"query"`
	PolicyNumber string `json:"policy_number,omitempty"`
}

// AssistantRequest for POST /api/v1/assistant
type AssistantRequest struct {
	Prompt string  `json:"prompt"`
	Agent  *string `json:"agent,omitempty"` // "underwriting" | "claims" | "customer"
	// Timeout is the run budget in seconds.
	Timeout int `json:"timeout"`
}

// SetDefaults clamps the timeout, using def when none was given.
func (r *AssistantRequest) SetDefaults(def int) {
	if r.Timeout == 0 {
		r.Timeout = def
	}
	if r.Timeout < 10 {
		r.Timeout = 10
	}
	if r.Timeout > 600 {
		r.Timeout = 600
	}
}
