package domain

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

// Problem describes one known failure mode of the auth subsystem.
type Problem struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
}

// CheckResult is the outcome of probing a single problem.
type CheckResult struct {
	HasProblem bool
	Details    string
}

// FixResult is the outcome of one remediation attempt.
type FixResult struct {
	Success bool
	Message string
	Details string
}

// ProblemStatus pairs a problem with its latest check outcome.
type ProblemStatus struct {
	Problem    Problem
	HasProblem bool
	Details    string
}

type DiagnosticSummary struct {
	Total    int
	Critical int
	High     int
	Medium   int
	Low      int
}

// DiagnosticReport aggregates one full diagnostic pass.
// Problems preserves registry order regardless of check completion order.
type DiagnosticReport struct {
	Problems []ProblemStatus
	Summary  DiagnosticSummary
}

// AppliedFix records one attempted remediation within a fix pass.
type AppliedFix struct {
	Problem Problem
	Success bool
	Message string
	Details string
}

type FixSummary struct {
	Total      int
	Successful int
	Failed     int
}

// FixReport aggregates one full fix pass.
type FixReport struct {
	Applied []AppliedFix
	Summary FixSummary
}
