package dto

import "github.com/guttosm/dartpulse/internal/domain/models"

// FinancialsResponse is returned by GET /api/v1/financials/{corp_code}.
// Items keep the field order the DART API produced. MissingYears lists the
// requested years that were never fetched into the store.
type FinancialsResponse struct {
	CorpCode     string            `json:"corp_code" example:"00126380"`
	StartYear    int               `json:"start_year" example:"2021"`
	EndYear      int               `json:"end_year" example:"2023"`
	Count        int               `json:"count" example:"180"`
	Items        []models.LineItem `json:"items" swaggertype:"array,object"`
	MissingYears []int             `json:"missing_years" example:"2023"`
}

// NewFinancialsResponse never returns nil slices so the JSON body always carries arrays.
func NewFinancialsResponse(corpCode string, startYear, endYear int, items []models.LineItem, missing []int) FinancialsResponse {
	if items == nil {
		items = []models.LineItem{}
	}
	if missing == nil {
		missing = []int{}
	}
	return FinancialsResponse{
		CorpCode:     corpCode,
		StartYear:    startYear,
		EndYear:      endYear,
		Count:        len(items),
		Items:        items,
		MissingYears: missing,
	}
}
