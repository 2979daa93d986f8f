package models

// CorporateRecord is one entry of the DART corporate identifier registry
// (corpCode.xml). All fields are kept as raw text.
//
// Fields:
//   - CorpCode: 8-digit DART identifier (e.g., "00126380").
//   - CorpName: registered Korean name.
//   - StockCode: 6-digit listing code, trimmed; empty for unlisted entities.
//   - ModifyDate: last modification date as published (YYYYMMDD, not parsed).
type CorporateRecord struct {
	CorpCode   string `json:"corp_code" example:"00126380"`
	CorpName   string `json:"corp_name" example:"삼성전자"`
	StockCode  string `json:"stock_code" example:"005930"`
	ModifyDate string `json:"modify_date" example:"20240101"`
}

// Listed reports whether the entity has a stock listing code.
func (r CorporateRecord) Listed() bool {
	return r.StockCode != ""
}
