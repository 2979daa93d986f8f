package dart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/dartpulse/internal/domain/models"
)

const (
	// ReportCodeAnnual selects the annual business report (사업보고서).
	ReportCodeAnnual = "11011"
	// StatementScopeConsolidated selects consolidated financial statements.
	StatementScopeConsolidated = "CFS"
)

// statementResponse is the envelope of fnlttSinglAcntAll.json.
type statementResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	List    []models.LineItem `json:"list"`
}

// YearResult is the outcome of one yearly statement request.
// Exactly one of Items (non-empty) or Err is set.
type YearResult struct {
	Year  int
	Items []models.LineItem
	Err   error
}

// FinancialsResult holds every yearly outcome of a FetchFinancials run, in ascending year order.
type FinancialsResult struct {
	CorpCode  string
	StartYear int
	EndYear   int
	Years     []YearResult
}

// Items concatenates the line items of all successful years in ascending year order.
func (r *FinancialsResult) Items() []models.LineItem {
	var out []models.LineItem
	for _, y := range r.Years {
		out = append(out, y.Items...)
	}
	return out
}

// Failed returns the years that contributed nothing.
func (r *FinancialsResult) Failed() []YearResult {
	var out []YearResult
	for _, y := range r.Years {
		if y.Err != nil {
			out = append(out, y)
		}
	}
	return out
}

// FetchFinancials requests the full consolidated annual statement of corpCode
// for every year in [startYear, endYear].
//
// Behavior:
//   - Returns ErrConfig, without any request, when no credential is configured.
//   - startYear > endYear yields an empty result.
//   - Each year is independent: a network, parse or API-level failure is logged,
//     recorded on that year's YearResult and never affects other years. There is no retry.
//   - Up to the client's parallel limit years are in flight at once; results
//     are always reassembled in ascending year order.
//
// The returned error is non-nil only for ErrConfig or when ctx is done.
func (c *Client) FetchFinancials(ctx context.Context, corpCode string, startYear, endYear int) (*FinancialsResult, error) {
	if !c.HasCredential() {
		return nil, ErrConfig
	}

	res := &FinancialsResult{CorpCode: corpCode, StartYear: startYear, EndYear: endYear}
	if startYear > endYear {
		return res, nil
	}

	res.Years = make([]YearResult, endYear-startYear+1)
	c.log.Info().Str("corp_code", corpCode).Int("start_year", startYear).Int("end_year", endYear).
		Int("parallel", c.parallel).Msg("collecting financial statements")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)

	for i := range res.Years {
		year := startYear + i
		slot := &res.Years[i]
		g.Go(func() error {
			start := time.Now()
			items, err := c.fetchYear(gctx, corpCode, year)
			*slot = YearResult{Year: year, Items: items, Err: err}

			ev := c.log.Info()
			if err != nil {
				ev = c.log.Warn().Err(err)
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					ev = ev.Str("status", apiErr.Status).Str("api_message", apiErr.Message)
				}
			}
			ev.Str("corp_code", corpCode).Int("year", year).Int("items", len(items)).
				Dur("elapsed", time.Since(start)).Msg("year processed")
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// fetchYear performs the single request for one year and validates the envelope.
func (c *Client) fetchYear(ctx context.Context, corpCode string, year int) ([]models.LineItem, error) {
	query := url.Values{
		"crtfc_key":  {c.apiKey},
		"corp_code":  {corpCode},
		"bsns_year":  {strconv.Itoa(year)},
		"reprt_code": {ReportCodeAnnual},
		"fs_div":     {StatementScopeConsolidated},
	}

	body, err := c.get(ctx, statementsPath, query)
	if err != nil {
		return nil, err
	}

	var resp statementResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: statement response for %d: %w", ErrParse, year, err)
	}
	if resp.Status != StatusOK || len(resp.List) == 0 {
		return nil, newAPIError(resp.Status, resp.Message)
	}
	return resp.List, nil
}
