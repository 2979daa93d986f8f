package dto

import "github.com/guttosm/dartpulse/internal/domain/models"

// CorpResponse is a single registry entry as exposed by the API.
type CorpResponse struct {
	CorpCode   string `json:"corp_code" example:"00126380"`
	CorpName   string `json:"corp_name" example:"삼성전자"`
	StockCode  string `json:"stock_code" example:"005930"`
	ModifyDate string `json:"modify_date" example:"20240101"`
}

// CorpListResponse wraps a name lookup result.
type CorpListResponse struct {
	Count int            `json:"count" example:"1"`
	Items []CorpResponse `json:"items"`
}

// NewCorpResponse maps a domain record to its API shape.
func NewCorpResponse(r models.CorporateRecord) CorpResponse {
	return CorpResponse{
		CorpCode:   r.CorpCode,
		CorpName:   r.CorpName,
		StockCode:  r.StockCode,
		ModifyDate: r.ModifyDate,
	}
}

// NewCorpListResponse maps a slice of domain records.
func NewCorpListResponse(records []models.CorporateRecord) CorpListResponse {
	out := CorpListResponse{Count: len(records), Items: make([]CorpResponse, 0, len(records))}
	for _, r := range records {
		out.Items = append(out.Items, NewCorpResponse(r))
	}
	return out
}
