package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/chirp/app_config"
	"github.com/Luismorlan/chirp/seeder"
	"github.com/Luismorlan/chirp/store"
	. "github.com/Luismorlan/chirp/utils"
	"github.com/Luismorlan/chirp/utils/dotenv"
	. "github.com/Luismorlan/chirp/utils/log"
	"github.com/spf13/cobra"
)

var (
	envFlag     string
	configFlag  string
	migrateFlag bool
)

// errAlreadyReported marks failures the seeder already logged.
var errAlreadyReported = errors.New("seeding failed")

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Populate a chirp database with synthetic data",
	Long:          `Seed users, tweets, reply threads, follows and likes according to the runtime environment. Production is never seeded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFlag, "env", "", "runtime environment, overrides "+dotenv.RuntimeEnvKey)
	rootCmd.Flags().StringVar(&configFlag, "config", "", "path to the yaml seeding config, defaults are used when empty")
	rootCmd.Flags().BoolVar(&migrateFlag, "migrate", false, "auto migrate the schema before seeding")
}

func newDogStatsdClient() statsd.ClientInterface {
	addr := os.Getenv("STATSD_ADDR")
	if addr == "" {
		return &statsd.NoOpClient{}
	}
	client, err := statsd.New(addr)
	if err != nil {
		Log.Warn("cannot create statsd client, metrics are disabled: ", err)
		return &statsd.NoOpClient{}
	}
	return client
}

func run(ctx context.Context) error {
	if envFlag != "" {
		os.Setenv(dotenv.RuntimeEnvKey, envFlag)
	}
	if err := dotenv.LoadDotEnvs(); err != nil {
		return err
	}
	// Pick up the env field and log settings of the loaded files.
	InitLogger()

	config, err := app_config.ParseSeedingAppConfig(configFlag)
	if err != nil {
		return err
	}

	db, err := GetDBConnection()
	if err != nil {
		return err
	}
	st := store.NewGormStore(db)

	if migrateFlag {
		if err = DatabaseSetupAndMigration(db); err != nil {
			st.Close()
			return err
		}
	}

	metrics, err := seeder.NewMetrics(newDogStatsdClient())
	if err != nil {
		st.Close()
		return err
	}

	s := seeder.NewSeeder(st, config, seeder.NewLogger(Log), metrics)
	err = s.Run(ctx, GetRuntimeEnv())

	metrics.Close()
	if closeErr := st.Close(); closeErr != nil {
		Log.Warn("cannot close database connection: ", closeErr)
	}
	if err != nil {
		return errAlreadyReported
	}
	Log.Info("Database connection closed")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errAlreadyReported) {
			Log.Error(seeder.ErrorPrefix + "Seeding failed: " + seeder.FormatError(err))
		}
		stop()
		os.Exit(1)
	}
}
