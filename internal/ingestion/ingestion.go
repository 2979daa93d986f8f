package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/dartpulse/internal/dart"
	"github.com/guttosm/dartpulse/internal/domain/models"
	"github.com/guttosm/dartpulse/internal/export"
	"github.com/guttosm/dartpulse/internal/logger"
	"github.com/guttosm/dartpulse/internal/storage"
)

// ErrNoData is the soft failure of a financial run in which no year returned items.
var ErrNoData = errors.New("no financial data collected")

// Fetcher is the subset of the DART client the pipelines need.
type Fetcher interface {
	FetchRegistry(ctx context.Context) ([]models.CorporateRecord, error)
	FetchFinancials(ctx context.Context, corpCode string, startYear, endYear int) (*dart.FinancialsResult, error)
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.DisclosureRepository {
	return storage.NewDisclosureRepository(db)
}

// Options controls where pipeline output goes.
//
//   - OutputDir: directory for the CSV export.
//   - Store: also persist the fetched data through the repository built on DB.
type Options struct {
	OutputDir string
	Store     bool
	DB        *sql.DB
}

// Summary describes one finished run.
type Summary struct {
	RunID       string
	File        string
	Rows        int
	Listed      int // registry runs: records carrying a stock code
	FailedYears []int
	Elapsed     time.Duration
}

// RunRegistry downloads the corporate registry, writes dart_corp_codes.csv and,
// when opts.Store is set, replaces the stored registry.
//
// Behavior:
//   - Network and parse failures abort the run; nothing is written.
//   - An empty registry returns dart.ErrNoRecords and writes nothing.
//   - The file is written only after the full record set is in memory.
//
// Returns the parsed records (for follow-up lookups) and the run summary.
func RunRegistry(ctx context.Context, f Fetcher, opts Options) ([]models.CorporateRecord, *Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	log := logger.Named("ingestion").With().Str("run_id", sum.RunID).Str("kind", storage.KindRegistry).Logger()

	log.Info().Msg("registry run start")
	records, err := f.FetchRegistry(ctx)
	if err != nil {
		if errors.Is(err, dart.ErrNoRecords) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("fetch registry: %w", err)
	}

	sum.File = filepath.Join(opts.OutputDir, export.RegistryFileName)
	if err := export.WriteFile(sum.File, func(w io.Writer) error {
		return export.WriteCorpRecords(w, records)
	}); err != nil {
		return nil, nil, fmt.Errorf("write %s: %w", sum.File, err)
	}
	sum.Rows = len(records)
	for _, r := range records {
		if r.Listed() {
			sum.Listed++
		}
	}

	if opts.Store {
		repo := repoCtor(opts.DB)
		if err := repo.ReplaceCorpCodes(records); err != nil {
			return records, sum, fmt.Errorf("store registry: %w", err)
		}
		if err := repo.UpsertFetchLog(storage.KindRegistry, "all", len(records)); err != nil {
			return records, sum, fmt.Errorf("update fetch log: %w", err)
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info().Int("rows", sum.Rows).Int("listed", sum.Listed).Str("file", sum.File).Bool("stored", opts.Store).
		Dur("elapsed", sum.Elapsed).Msg("registry run done")
	return records, sum, nil
}

// FinancialsRequest selects the company and inclusive year range to collect.
type FinancialsRequest struct {
	CorpCode  string
	StartYear int
	EndYear   int
}

// RunFinancials collects the annual consolidated statements of one company
// over a year range, writes {corp}_financials_{start}_{end}.csv and, when
// opts.Store is set, replaces the stored rows of every year that returned data.
//
// Behavior:
//   - dart.ErrConfig (missing credential) aborts before any request.
//   - Failed years are skipped and reported in Summary.FailedYears.
//   - When no year returned data, ErrNoData is returned and no file is written.
func RunFinancials(ctx context.Context, f Fetcher, req FinancialsRequest, opts Options) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	log := logger.Named("ingestion").With().
		Str("run_id", sum.RunID).
		Str("kind", storage.KindFinancials).
		Str("corp_code", req.CorpCode).
		Logger()

	log.Info().Int("start_year", req.StartYear).Int("end_year", req.EndYear).Msg("financials run start")
	res, err := f.FetchFinancials(ctx, req.CorpCode, req.StartYear, req.EndYear)
	if err != nil {
		return nil, fmt.Errorf("fetch financials: %w", err)
	}
	for _, y := range res.Failed() {
		sum.FailedYears = append(sum.FailedYears, y.Year)
	}

	items := res.Items()
	if len(items) == 0 {
		log.Warn().Ints("failed_years", sum.FailedYears).Msg("no data collected")
		return sum, ErrNoData
	}

	sum.File = filepath.Join(opts.OutputDir, export.FinancialsFileName(req.CorpCode, req.StartYear, req.EndYear))
	if err := export.WriteFile(sum.File, func(w io.Writer) error {
		return export.WriteLineItems(w, items)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", sum.File, err)
	}
	sum.Rows = len(items)

	if opts.Store {
		repo := repoCtor(opts.DB)
		for _, y := range res.Years {
			if len(y.Items) == 0 {
				continue
			}
			if err := repo.ReplaceLineItems(req.CorpCode, y.Year, y.Items); err != nil {
				return sum, fmt.Errorf("store %d: %w", y.Year, err)
			}
			if err := repo.UpsertFetchLog(storage.KindFinancials, storage.FinancialsKey(req.CorpCode, y.Year), len(y.Items)); err != nil {
				return sum, fmt.Errorf("update fetch log %d: %w", y.Year, err)
			}
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info().Int("rows", sum.Rows).Ints("failed_years", sum.FailedYears).Str("file", sum.File).
		Bool("stored", opts.Store).Dur("elapsed", sum.Elapsed).Msg("financials run done")
	return sum, nil
}
