package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/guttosm/dartpulse/config"
	"github.com/guttosm/dartpulse/internal/app"
	"github.com/guttosm/dartpulse/internal/buildinfo"
	"github.com/guttosm/dartpulse/internal/dart"
	"github.com/guttosm/dartpulse/internal/ingestion"
	"github.com/guttosm/dartpulse/internal/logger"
)

// Indirections overridden in tests.
var (
	loadConfig    = config.LoadConfig
	newFetcher    = func(cfg config.DartConfig) ingestion.Fetcher { return dart.NewClient(cfg) }
	openStore     = app.OpenStore
	initializeApp = app.InitializeApp
)

// runtime carries what PersistentPreRunE resolved for the subcommands.
type runtime struct {
	cfg       config.Config
	outputDir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
//
// Configuration is loaded once before any subcommand runs; --output-dir
// overrides OUTPUT_DIR.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:     "dartpulse",
		Short:   "Collect DART corporate registry and financial statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if rt.outputDir != "" {
				cfg.Output.Dir = rt.outputDir
			}
			rt.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&rt.outputDir, "output-dir", "", "directory for CSV exports (overrides OUTPUT_DIR)")

	rootCmd.AddCommand(
		newRegistryCommand(rt),
		newFinancialsCommand(rt),
		newServeCommand(rt),
	)

	return rootCmd
}

// storeOptions opens the store when requested. The returned close func is never nil.
func (rt *runtime) storeOptions(store bool) (ingestion.Options, func(), error) {
	opts := ingestion.Options{OutputDir: rt.cfg.Output.Dir, Store: store}
	if !store {
		return opts, func() {}, nil
	}
	db, err := openStore(rt.cfg)
	if err != nil {
		return opts, nil, err
	}
	opts.DB = db
	return opts, func() { closeDB(db) }, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.L().Warn().Err(err).Msg("closing database")
	}
}
