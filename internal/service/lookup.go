package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/dartpulse/internal/domain/models"
	"github.com/guttosm/dartpulse/internal/storage"
)

// MinYear is the earliest business year a financials lookup accepts.
const MinYear = 1990

// ErrInvalidRange is returned for year ranges outside [MinYear, next year] or inverted ones.
var ErrInvalidRange = errors.New("invalid year range")

// ValidateYearRange checks start and end against [MinYear, now.Year()+1] and start <= end.
func ValidateYearRange(startYear, endYear int, now time.Time) error {
	maxYear := now.Year() + 1
	switch {
	case startYear < MinYear || endYear > maxYear:
		return fmt.Errorf("%w: years must be within %d..%d", ErrInvalidRange, MinYear, maxYear)
	case startYear > endYear:
		return fmt.Errorf("%w: start_year must not be after end_year", ErrInvalidRange)
	}
	return nil
}

// Financials is the stored statement data of one company over a year range.
//
// MissingYears lists the years of the range that were never fetched, so a
// caller can tell "no rows yet" apart from "fetched, nothing filed".
type Financials struct {
	CorpCode     string
	StartYear    int
	EndYear      int
	Items        []models.LineItem
	MissingYears []int
}

// LookupService defines read access to the stored registry and statements.
type LookupService interface {
	FindByName(ctx context.Context, name string) ([]models.CorporateRecord, error)
	GetCorp(ctx context.Context, corpCode string) (*models.CorporateRecord, error)
	GetFinancials(ctx context.Context, corpCode string, startYear, endYear int) (*Financials, error)
}

type lookupService struct {
	repo storage.DisclosureRepository
	now  func() time.Time
}

func NewLookupService(repo storage.DisclosureRepository) LookupService {
	return &lookupService{repo: repo, now: time.Now}
}

// FindByName returns the registry entries whose name equals name exactly.
func (s *lookupService) FindByName(ctx context.Context, name string) ([]models.CorporateRecord, error) {
	return s.repo.FindCorpsByName(ctx, name)
}

// GetCorp returns nil, nil when the code is unknown.
func (s *lookupService) GetCorp(ctx context.Context, corpCode string) (*models.CorporateRecord, error) {
	return s.repo.GetCorp(ctx, corpCode)
}

// GetFinancials returns ErrInvalidRange (wrapped) before touching the store
// when the range fails ValidateYearRange. The fetch log is read in one query.
func (s *lookupService) GetFinancials(ctx context.Context, corpCode string, startYear, endYear int) (*Financials, error) {
	if err := ValidateYearRange(startYear, endYear, s.now()); err != nil {
		return nil, err
	}

	items, err := s.repo.ListLineItems(ctx, corpCode, startYear, endYear)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		keys = append(keys, storage.FinancialsKey(corpCode, y))
	}
	fetched, err := s.repo.FetchedKeys(ctx, storage.KindFinancials, keys)
	if err != nil {
		return nil, fmt.Errorf("check fetch log: %w", err)
	}

	out := &Financials{CorpCode: corpCode, StartYear: startYear, EndYear: endYear, Items: items}
	for i, k := range keys {
		if !fetched[k] {
			out.MissingYears = append(out.MissingYears, startYear+i)
		}
	}
	return out, nil
}
