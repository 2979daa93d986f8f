package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guttosm/dartpulse/internal/dart"
	"github.com/guttosm/dartpulse/internal/ingestion"
	"github.com/guttosm/dartpulse/internal/logger"
)

func newRegistryCommand(rt *runtime) *cobra.Command {
	var demoName string
	var store bool

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Download the corporate registry to dart_corp_codes.csv",
		Long: "Downloads the DART corporate registry, writes dart_corp_codes.csv and prints the\n" +
			"corp_code of the first company named --demo-name.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, closeStore, err := rt.storeOptions(store)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer closeStore()

			log := logger.Named("registry")
			records, sum, err := ingestion.RunRegistry(cmd.Context(), newFetcher(rt.cfg.Dart), opts)
			if errors.Is(err, dart.ErrNoRecords) {
				log.Warn().Msg("registry is empty, nothing written")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("file", sum.File).Int("rows", sum.Rows).Int("listed", sum.Listed).Msg("registry saved")

			if demoName == "" {
				return nil
			}
			matches := dart.FindByName(records, demoName)
			if len(matches) == 0 {
				log.Warn().Str("name", demoName).Msg("no company with that name")
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), matches[0].CorpCode)
			return err
		},
	}

	cmd.Flags().StringVar(&demoName, "demo-name", "삼성전자", "company name to look up after the download (empty to skip)")
	cmd.Flags().BoolVar(&store, "store", false, "also replace the registry stored in PostgreSQL")

	return cmd
}
