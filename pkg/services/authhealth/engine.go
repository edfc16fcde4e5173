package authhealth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/store/identity"
	"github.com/wellfit-labs/wellfit/pkg/store/localcache"
	"github.com/wellfit-labs/wellfit/pkg/store/profile"
)

const (
	// reauthWindow is how close to expiry a session may get before a
	// fresh login is recommended.
	reauthWindow = 300 * time.Second

	// connectivityLatencyThreshold flags a completed provider health
	// probe as a connectivity problem. It is measured after the fact
	// and imposes no deadline on the call itself.
	connectivityLatencyThreshold = 5000 * time.Millisecond

	// providerKeySubstring identifies provider-owned entries in the
	// local cache.
	providerKeySubstring = "gotrue"
)

// Engine probes the auth subsystem for known failure modes and applies
// one-shot remediations. Checks are side-effect free; fixes perform real
// calls against the provider and are attempted at most once per pass.
type Engine struct {
	identity identity.Client
	profiles profile.Store
	cache    localcache.Store
	origin   string
	now      func() time.Time
	problems []problemEntry
}

type Settings struct {
	// Origin is the public origin the web client is served from, used
	// by the cross-origin check.
	Origin string
}

func NewEngine(
	identityClient identity.Client,
	profiles profile.Store,
	cache localcache.Store,
	settings Settings,
) (*Engine, error) {
	if identityClient == nil {
		return nil, fmt.Errorf("identity client is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("local cache is required")
	}

	e := &Engine{
		identity: identityClient,
		profiles: profiles,
		cache:    cache,
		origin:   settings.Origin,
		now:      time.Now,
	}
	e.problems = e.problemRegistry()
	return e, nil
}

// Problems returns the registry in its fixed order.
func (e *Engine) Problems() []domain.Problem {
	problems := make([]domain.Problem, 0, len(e.problems))
	for _, p := range e.problems {
		problems = append(problems, p.Problem)
	}
	return problems
}

// Diagnose runs every registered check concurrently and aggregates the
// outcomes in registry order. It never returns an error; probe failures
// surface as detected problems.
func (e *Engine) Diagnose(ctx context.Context) domain.DiagnosticReport {
	logger := zerolog.Ctx(ctx)

	statuses := make([]domain.ProblemStatus, len(e.problems))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range e.problems {
		g.Go(func() error {
			res := tryCheck(gctx, p.check)
			statuses[i] = domain.ProblemStatus{
				Problem:    p.Problem,
				HasProblem: res.HasProblem,
				Details:    res.Details,
			}
			return nil
		})
	}
	_ = g.Wait()

	var summary domain.DiagnosticSummary
	for _, s := range statuses {
		if !s.HasProblem {
			continue
		}
		summary.Total++
		switch s.Problem.Severity {
		case domain.SeverityCritical:
			summary.Critical++
		case domain.SeverityHigh:
			summary.High++
		case domain.SeverityMedium:
			summary.Medium++
		default:
			summary.Low++
		}
	}

	logger.Debug().
		Int("detected", summary.Total).
		Msg("diagnostic pass completed")

	return domain.DiagnosticReport{Problems: statuses, Summary: summary}
}

// ApplyFixes runs a fresh diagnostic pass and attempts the fix for every
// detected problem. Fixes for undetected problems are never invoked.
// Severity carries no scheduling weight: all detected fixes run with
// equal priority.
func (e *Engine) ApplyFixes(ctx context.Context) domain.FixReport {
	logger := zerolog.Ctx(ctx)

	report := e.Diagnose(ctx)

	var detected []problemEntry
	for _, status := range report.Problems {
		if !status.HasProblem {
			continue
		}
		for _, entry := range e.problems {
			if entry.ID == status.Problem.ID {
				detected = append(detected, entry)
				break
			}
		}
	}

	applied := make([]domain.AppliedFix, len(detected))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range detected {
		g.Go(func() error {
			res := tryFix(gctx, entry.fix)
			applied[i] = domain.AppliedFix{
				Problem: entry.Problem,
				Success: res.Success,
				Message: res.Message,
				Details: res.Details,
			}
			return nil
		})
	}
	_ = g.Wait()

	var summary domain.FixSummary
	for _, fix := range applied {
		summary.Total++
		if fix.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	logger.Info().
		Int("attempted", summary.Total).
		Int("successful", summary.Successful).
		Msg("fix pass completed")

	return domain.FixReport{Applied: applied, Summary: summary}
}

// NeedsReauthentication reports whether the caller should send the user
// through a fresh login: the session is absent, cannot be fetched, or
// expires within the reauth window. It is a pure read.
func (e *Engine) NeedsReauthentication(ctx context.Context) bool {
	session, err := e.identity.GetSession(ctx)
	if err != nil || session == nil {
		return true
	}
	return session.ExpiresAt.Before(e.now().Add(reauthWindow))
}

// ForceSessionRefresh invokes the provider's refresh directly, skipping
// the check step.
func (e *Engine) ForceSessionRefresh(ctx context.Context) domain.FixResult {
	return tryFix(ctx, func(ctx context.Context) (domain.FixResult, error) {
		session, err := e.identity.RefreshSession(ctx)
		if err != nil {
			return domain.FixResult{
				Success: false,
				Message: "session refresh failed",
				Details: err.Error(),
			}, nil
		}
		if session == nil {
			return domain.FixResult{
				Success: false,
				Message: "refresh returned no session",
			}, nil
		}
		return domain.FixResult{Success: true, Message: "session refreshed"}, nil
	})
}

// ClearAuthData wipes every locally persisted key that looks auth- or
// provider-related, then signs out remotely. Both side effects are
// always attempted; a failure in either reports as a single failure.
func (e *Engine) ClearAuthData(ctx context.Context) domain.FixResult {
	return tryFix(ctx, func(ctx context.Context) (domain.FixResult, error) {
		removed, wipeErr := e.cache.DeleteMatching(providerKeySubstring, "auth")

		// Sign-out runs even when the wipe failed or removed nothing.
		signOutErr := e.identity.SignOut(ctx)

		if wipeErr != nil {
			return domain.FixResult{
				Success: false,
				Message: "failed to clear local auth data",
				Details: wipeErr.Error(),
			}, nil
		}
		if signOutErr != nil {
			return domain.FixResult{
				Success: false,
				Message: "cleared local auth data but sign-out failed",
				Details: signOutErr.Error(),
			}, nil
		}
		return domain.FixResult{
			Success: true,
			Message: fmt.Sprintf("cleared %d cached entries and signed out", removed),
		}, nil
	})
}
