package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/runtime/terminal/export"
)

// Engine is the auth health surface the doctor commands drive.
type Engine interface {
	Diagnose(ctx context.Context) domain.DiagnosticReport
	ApplyFixes(ctx context.Context) domain.FixReport
	NeedsReauthentication(ctx context.Context) bool
	ForceSessionRefresh(ctx context.Context) domain.FixResult
	ClearAuthData(ctx context.Context) domain.FixResult
}

type FactorySettings struct {
	ProfilePath string
	Profile     string
	Origin      string
	CacheDir    string
}

// EngineFactory builds an engine for one command invocation. The
// returned closer releases the local cache.
type EngineFactory func(ctx context.Context, settings FactorySettings) (Engine, func() error, error)

type doctorCmd struct {
	profilePath string
	profile     string
	origin      string
	cacheDir    string
	factory     EngineFactory
	reporter    *export.Reporter
}

func NewDoctorCmd(factory EngineFactory, reporter *export.Reporter, defaultProfilePath string) *cobra.Command {
	dc := &doctorCmd{factory: factory, reporter: reporter}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose and repair the auth subsystem",
	}

	cmd.PersistentFlags().StringVar(&dc.profilePath, "config", defaultProfilePath,
		"Path to the credentials profile file")
	cmd.PersistentFlags().StringVar(&dc.profile, "profile", "default",
		"Profile to use from the credentials file")
	cmd.PersistentFlags().StringVar(&dc.origin, "origin", "http://localhost:5173",
		"Origin the web client is served from")
	cmd.PersistentFlags().StringVar(&dc.cacheDir, "cache-dir", "",
		"Local auth cache directory (empty for in-memory)")

	cmd.AddCommand(dc.newDiagnoseCmd())
	cmd.AddCommand(dc.newFixCmd())
	cmd.AddCommand(dc.newRefreshCmd())
	cmd.AddCommand(dc.newClearCmd())
	cmd.AddCommand(dc.newReauthCmd())

	return cmd
}

func (dc *doctorCmd) newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Run all auth checks and report detected problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dc.withEngine(func(ctx context.Context, engine Engine) error {
				return dc.reporter.HandleDiagnostics(engine.Diagnose(ctx))
			})
		},
	}
}

func (dc *doctorCmd) newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix",
		Short: "Re-diagnose and attempt a fix for every detected problem",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dc.withEngine(func(ctx context.Context, engine Engine) error {
				return dc.reporter.HandleFixes(engine.ApplyFixes(ctx))
			})
		},
	}
}

func (dc *doctorCmd) newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a session refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dc.withEngine(func(ctx context.Context, engine Engine) error {
				return dc.reporter.HandleResult("Session refresh", engine.ForceSessionRefresh(ctx))
			})
		},
	}
}

func (dc *doctorCmd) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe cached auth data and sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dc.withEngine(func(ctx context.Context, engine Engine) error {
				return dc.reporter.HandleResult("Clear auth data", engine.ClearAuthData(ctx))
			})
		},
	}
}

func (dc *doctorCmd) newReauthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reauth",
		Short: "Report whether a fresh login is needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dc.withEngine(func(ctx context.Context, engine Engine) error {
				return dc.reporter.HandleReauth(engine.NeedsReauthentication(ctx))
			})
		},
	}
}

func (dc *doctorCmd) withEngine(run func(ctx context.Context, engine Engine) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	engine, closer, err := dc.factory(ctx, FactorySettings{
		ProfilePath: dc.profilePath,
		Profile:     dc.profile,
		Origin:      dc.origin,
		CacheDir:    dc.cacheDir,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize the auth health engine: %w", err)
	}
	defer func() { _ = closer() }()

	return run(ctx, engine)
}
