package authhealth

import (
	"context"
	"fmt"
	"strings"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

const (
	ProblemSessionExpired = "session_expired"
	ProblemInvalidToken   = "invalid_token"
	ProblemConnectivity   = "connectivity"
	ProblemMissingProfile = "missing_profile"
	ProblemCORS           = "cors"
)

const (
	defaultProfileName = "New Member"
	defaultProfileRole = "member"
)

type problemEntry struct {
	domain.Problem
	check checkFunc
	fix   fixFunc
}

// problemRegistry builds the fixed, ordered set of known auth failure
// modes. The registry is constructed once per engine and never mutated.
func (e *Engine) problemRegistry() []problemEntry {
	return []problemEntry{
		{
			Problem: domain.Problem{
				ID:          ProblemSessionExpired,
				Name:        "Expired session",
				Description: "The current session is missing or could not be fetched",
				Severity:    domain.SeverityHigh,
			},
			check: e.checkSessionExpired,
			fix:   e.fixSessionExpired,
		},
		{
			Problem: domain.Problem{
				ID:          ProblemInvalidToken,
				Name:        "Invalid access token",
				Description: "The provider rejects the current access token",
				Severity:    domain.SeverityCritical,
			},
			check: e.checkInvalidToken,
			fix:   e.fixInvalidToken,
		},
		{
			Problem: domain.Problem{
				ID:          ProblemConnectivity,
				Name:        "Provider connectivity",
				Description: "The identity provider is unreachable or responding slowly",
				Severity:    domain.SeverityMedium,
			},
			check: e.checkConnectivity,
			fix:   e.fixConnectivity,
		},
		{
			Problem: domain.Problem{
				ID:          ProblemMissingProfile,
				Name:        "Missing profile record",
				Description: "No application profile exists for the signed-in user",
				Severity:    domain.SeverityHigh,
			},
			check: e.checkMissingProfile,
			fix:   e.fixMissingProfile,
		},
		{
			Problem: domain.Problem{
				ID:          ProblemCORS,
				Name:        "Cross-origin configuration",
				Description: "The provider rejects requests from the app origin",
				Severity:    domain.SeverityMedium,
			},
			check: e.checkCORS,
			fix:   e.fixCORS,
		},
	}
}

func (e *Engine) checkSessionExpired(ctx context.Context) (domain.CheckResult, error) {
	session, err := e.identity.GetSession(ctx)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if session == nil {
		return domain.CheckResult{HasProblem: true, Details: "no active session"}, nil
	}
	return domain.CheckResult{}, nil
}

func (e *Engine) fixSessionExpired(ctx context.Context) (domain.FixResult, error) {
	session, err := e.identity.RefreshSession(ctx)
	if err != nil {
		return domain.FixResult{
			Success: false,
			Message: "session refresh failed, please log in again",
			Details: err.Error(),
		}, nil
	}
	if session == nil {
		return domain.FixResult{
			Success: false,
			Message: "refresh returned no session, please log in again",
		}, nil
	}
	return domain.FixResult{Success: true, Message: "session refreshed"}, nil
}

func (e *Engine) checkInvalidToken(ctx context.Context) (domain.CheckResult, error) {
	_, err := e.identity.GetCurrentUser(ctx)
	if err != nil && isTokenError(err) {
		return domain.CheckResult{
			HasProblem: true,
			Details:    fmt.Sprintf("provider rejected the access token: %v", err),
		}, nil
	}
	return domain.CheckResult{}, nil
}

func (e *Engine) fixInvalidToken(ctx context.Context) (domain.FixResult, error) {
	if err := e.identity.SignOut(ctx); err != nil {
		return domain.FixResult{}, err
	}
	return domain.FixResult{
		Success: true,
		Message: "signed out, please log in again to obtain a fresh token",
	}, nil
}

func (e *Engine) checkConnectivity(ctx context.Context) (domain.CheckResult, error) {
	started := e.now()
	err := e.identity.CheckHealth(ctx)
	elapsed := e.now().Sub(started)

	if err != nil {
		return domain.CheckResult{}, err
	}
	if elapsed > connectivityLatencyThreshold {
		return domain.CheckResult{
			HasProblem: true,
			Details:    fmt.Sprintf("provider health probe took %s", elapsed),
		}, nil
	}
	return domain.CheckResult{}, nil
}

func (e *Engine) fixConnectivity(ctx context.Context) (domain.FixResult, error) {
	if err := e.identity.CheckHealth(ctx); err != nil {
		return domain.FixResult{
			Success: false,
			Message: "provider is still unreachable",
			Details: err.Error(),
		}, nil
	}
	return domain.FixResult{Success: true, Message: "provider reachable"}, nil
}

func (e *Engine) checkMissingProfile(ctx context.Context) (domain.CheckResult, error) {
	session, err := e.identity.GetSession(ctx)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if session == nil {
		return domain.CheckResult{HasProblem: true, Details: "not authenticated"}, nil
	}

	record, err := e.profiles.GetByID(ctx, session.User.ID)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if record == nil {
		return domain.CheckResult{
			HasProblem: true,
			Details:    fmt.Sprintf("no profile record for user %s", session.User.ID),
		}, nil
	}
	return domain.CheckResult{}, nil
}

func (e *Engine) fixMissingProfile(ctx context.Context) (domain.FixResult, error) {
	session, err := e.identity.GetSession(ctx)
	if err != nil {
		return domain.FixResult{}, err
	}
	if session == nil {
		return domain.FixResult{
			Success: false,
			Message: "cannot create a profile without an authenticated user",
		}, nil
	}

	err = e.profiles.Insert(ctx, domain.Profile{
		ID:    session.User.ID,
		Email: session.User.Email,
		Name:  defaultProfileName,
		Role:  defaultProfileRole,
	})
	if err != nil {
		return domain.FixResult{}, err
	}
	return domain.FixResult{Success: true, Message: "created a minimal profile record"}, nil
}

func (e *Engine) checkCORS(ctx context.Context) (domain.CheckResult, error) {
	// Cross-origin rules never apply to local development origins.
	if isLocalOrigin(e.origin) {
		return domain.CheckResult{}, nil
	}

	_, err := e.identity.GetSession(ctx)
	if err != nil && isCORSError(err) {
		return domain.CheckResult{
			HasProblem: true,
			Details:    fmt.Sprintf("cross-origin failure observed: %v", err),
		}, nil
	}
	return domain.CheckResult{}, nil
}

func (e *Engine) fixCORS(_ context.Context) (domain.FixResult, error) {
	return domain.FixResult{
		Success: false,
		Message: fmt.Sprintf(
			"no automated fix: add %q to the provider's allowed origins in its dashboard", e.origin),
	}, nil
}

func isTokenError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "jwt") ||
		strings.Contains(msg, "token is expired") ||
		strings.Contains(msg, "invalid token")
}

func isCORSError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cors") || strings.Contains(msg, "cross-origin")
}

func isLocalOrigin(origin string) bool {
	return strings.Contains(origin, "localhost") ||
		strings.Contains(origin, "127.0.0.1") ||
		strings.Contains(origin, "[::1]")
}
