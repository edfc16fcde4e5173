package api

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Problem struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type ProblemStatus struct {
	Problem    Problem `json:"problem"`
	HasProblem bool    `json:"has_problem"`
	Details    string  `json:"details,omitempty"`
}

type DiagnosticSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

type DiagnosticReport struct {
	Problems []ProblemStatus   `json:"problems"`
	Summary  DiagnosticSummary `json:"summary"`
}

type AppliedFix struct {
	Problem Problem `json:"problem"`
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Details string  `json:"details,omitempty"`
}

type FixSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type FixReport struct {
	Applied []AppliedFix `json:"applied"`
	Summary FixSummary   `json:"summary"`
}

type FixResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ReauthStatus struct {
	NeedsReauthentication bool `json:"needs_reauthentication"`
}
