package adapters

import (
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityMedium:
		return api.SeverityMedium
	case domain.SeverityHigh:
		return api.SeverityHigh
	case domain.SeverityCritical:
		return api.SeverityCritical
	default:
		return api.SeverityLow
	}
}

func MapProblemDomainToApi(p domain.Problem) api.Problem {
	return api.Problem{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Severity:    MapSeverityDomainToApi(p.Severity),
	}
}

func MapDiagnosticReportDomainToApi(r domain.DiagnosticReport) api.DiagnosticReport {
	res := api.DiagnosticReport{
		Problems: make([]api.ProblemStatus, 0, len(r.Problems)),
		Summary: api.DiagnosticSummary{
			Total:    r.Summary.Total,
			Critical: r.Summary.Critical,
			High:     r.Summary.High,
			Medium:   r.Summary.Medium,
			Low:      r.Summary.Low,
		},
	}
	for _, p := range r.Problems {
		res.Problems = append(res.Problems, api.ProblemStatus{
			Problem:    MapProblemDomainToApi(p.Problem),
			HasProblem: p.HasProblem,
			Details:    p.Details,
		})
	}
	return res
}

func MapFixReportDomainToApi(r domain.FixReport) api.FixReport {
	res := api.FixReport{
		Applied: make([]api.AppliedFix, 0, len(r.Applied)),
		Summary: api.FixSummary{
			Total:      r.Summary.Total,
			Successful: r.Summary.Successful,
			Failed:     r.Summary.Failed,
		},
	}
	for _, f := range r.Applied {
		res.Applied = append(res.Applied, api.AppliedFix{
			Problem: MapProblemDomainToApi(f.Problem),
			Success: f.Success,
			Message: f.Message,
			Details: f.Details,
		})
	}
	return res
}

func MapFixResultDomainToApi(r domain.FixResult) api.FixResult {
	return api.FixResult{
		Success: r.Success,
		Message: r.Message,
		Details: r.Details,
	}
}
