package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guttosm/dartpulse/internal/ingestion"
	"github.com/guttosm/dartpulse/internal/logger"
)

func newFinancialsCommand(rt *runtime) *cobra.Command {
	var req ingestion.FinancialsRequest
	var store bool

	cmd := &cobra.Command{
		Use:   "financials",
		Short: "Download annual consolidated statements of one company",
		Long: "Fetches the annual (11011) consolidated (CFS) statements of --corp for every year in\n" +
			"[--start, --end] and writes {corp}_financials_{start}_{end}.csv. Years that fail are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.CorpCode == "" {
				return fmt.Errorf("--corp is required")
			}

			opts, closeStore, err := rt.storeOptions(store)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer closeStore()

			log := logger.Named("financials").With().Str("corp_code", req.CorpCode).Logger()
			sum, err := ingestion.RunFinancials(cmd.Context(), newFetcher(rt.cfg.Dart), req, opts)
			if errors.Is(err, ingestion.ErrNoData) {
				log.Warn().Ints("failed_years", sum.FailedYears).Msg("no financial data collected, nothing written")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("file", sum.File).Int("rows", sum.Rows).Ints("failed_years", sum.FailedYears).Msg("financials saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CorpCode, "corp", "00126380", "8-digit DART corp code")
	cmd.Flags().IntVar(&req.StartYear, "start", 2021, "first business year (inclusive)")
	cmd.Flags().IntVar(&req.EndYear, "end", 2025, "last business year (inclusive)")
	cmd.Flags().BoolVar(&store, "store", false, "also store the line items in PostgreSQL")

	return cmd
}
