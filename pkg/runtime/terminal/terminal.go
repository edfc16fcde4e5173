package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wellfit-labs/wellfit/pkg/runtime/terminal/commands"
	"github.com/wellfit-labs/wellfit/pkg/runtime/terminal/export"
	"github.com/wellfit-labs/wellfit/pkg/services/authhealth"
	"github.com/wellfit-labs/wellfit/pkg/services/config"
	"github.com/wellfit-labs/wellfit/pkg/store/identity"
	"github.com/wellfit-labs/wellfit/pkg/store/localcache"
	"github.com/wellfit-labs/wellfit/pkg/store/profile"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Factory builds the engine driving the doctor commands. Nil means
	// the default factory reading the credentials profile file.
	Factory            commands.EngineFactory
	DefaultProfilePath string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = defaultEngineFactory
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "wellfit",
		Short: "WellFit operations tool",
	}
	cli.rootCmd.AddCommand(commands.NewDoctorCmd(opts.Factory, cli.reporter, opts.DefaultProfilePath))

	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func defaultEngineFactory(ctx context.Context, settings commands.FactorySettings) (commands.Engine, func() error, error) {
	registry, err := config.NewRegistry(settings.ProfilePath)
	if err != nil {
		return nil, nil, err
	}

	creds, err := registry.GetCredentials(ctx, settings.Profile)
	if err != nil {
		return nil, nil, err
	}

	cache, err := localcache.NewStore(localcache.Settings{Dir: settings.CacheDir})
	if err != nil {
		return nil, nil, err
	}

	identityClient, err := identity.NewClient(identity.Settings{
		BaseURL: creds.URL,
		APIKey:  creds.AnonKey,
	}, cache)
	if err != nil {
		_ = cache.Close()
		return nil, nil, err
	}

	profiles, err := profile.NewStore(profile.Settings{
		BaseURL: creds.URL,
		APIKey:  creds.AnonKey,
	})
	if err != nil {
		_ = cache.Close()
		return nil, nil, err
	}

	engine, err := authhealth.NewEngine(identityClient, profiles, cache, authhealth.Settings{
		Origin: settings.Origin,
	})
	if err != nil {
		_ = cache.Close()
		return nil, nil, err
	}

	return engine, cache.Close, nil
}
