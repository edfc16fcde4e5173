package main

import (
	"fmt"
	"net"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wellfit-labs/wellfit/pkg/server"
	"github.com/wellfit-labs/wellfit/pkg/services/authhealth"
	"github.com/wellfit-labs/wellfit/pkg/services/billing"
	appconfig "github.com/wellfit-labs/wellfit/pkg/services/config"
	"github.com/wellfit-labs/wellfit/pkg/services/media"
	"github.com/wellfit-labs/wellfit/pkg/services/plans"
	"github.com/wellfit-labs/wellfit/pkg/store/catalog"
	"github.com/wellfit-labs/wellfit/pkg/store/identity"
	"github.com/wellfit-labs/wellfit/pkg/store/localcache"
	"github.com/wellfit-labs/wellfit/pkg/store/profile"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the WellFit web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "wellfit.yaml",
		"Path to the application config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := appconfig.LoadAppConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load app config: %w", err)
	}

	cache, err := localcache.NewStore(localcache.Settings{Dir: cfg.Cache.Dir})
	if err != nil {
		return fmt.Errorf("failed to open local cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	identityClient, err := identity.NewClient(identity.Settings{
		BaseURL: cfg.Provider.URL,
		APIKey:  cfg.Provider.AnonKey,
	}, cache)
	if err != nil {
		return fmt.Errorf("failed to create identity client: %w", err)
	}

	profiles, err := profile.NewStore(profile.Settings{
		BaseURL: cfg.Provider.URL,
		APIKey:  cfg.Provider.AnonKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create profile store: %w", err)
	}

	engine, err := authhealth.NewEngine(identityClient, profiles, cache, authhealth.Settings{
		Origin: cfg.Provider.Origin,
	})
	if err != nil {
		return fmt.Errorf("failed to create auth health engine: %w", err)
	}

	db, err := catalog.NewDB(catalog.Settings{DbPath: cfg.Catalog.DbPath})
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer func() { _ = db.Close() }()

	catalogStore, err := catalog.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create catalog store: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Media.Region))
	if err != nil {
		return fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	videos, err := media.NewService(awsCfg, catalogStore, media.Settings{
		Bucket:    cfg.Media.Bucket,
		URLExpiry: time.Duration(cfg.Media.URLExpiryMinutes) * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	planSvc, err := plans.NewService(cfg.Plans)
	if err != nil {
		return fmt.Errorf("failed to create plans service: %w", err)
	}

	checkout, err := billing.NewService(billing.Settings{
		APIURL:    cfg.Billing.APIURL,
		SecretKey: cfg.Billing.SecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create billing service: %w", err)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Health:  engine,
			Videos:  videos,
			Plans:   planSvc,
			Billing: checkout,
		},
	})

	return api.Start()
}
