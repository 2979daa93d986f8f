package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/guttosm/dartpulse/internal/domain/models"
)

// Fetch log kinds.
const (
	KindRegistry   = "registry"
	KindFinancials = "financials"
)

// DisclosureRepository defines contract for DB operations on fetched DART data.
type DisclosureRepository interface {
	ReplaceCorpCodes(records []models.CorporateRecord) error
	ReplaceLineItems(corpCode string, year int, items []models.LineItem) error
	FindCorpsByName(ctx context.Context, name string) ([]models.CorporateRecord, error)
	GetCorp(ctx context.Context, corpCode string) (*models.CorporateRecord, error)
	ListLineItems(ctx context.Context, corpCode string, startYear, endYear int) ([]models.LineItem, error)
	FetchedKeys(ctx context.Context, kind string, keys []string) (map[string]bool, error)
	UpsertFetchLog(kind, key string, rowCount int) error
}

type disclosureRepository struct {
	db *sql.DB
}

func NewDisclosureRepository(db *sql.DB) DisclosureRepository {
	return &disclosureRepository{db: db}
}

// FinancialsKey is the fetch log key of one corp/year.
func FinancialsKey(corpCode string, year int) string {
	return fmt.Sprintf("%s:%d", corpCode, year)
}

// copyIn runs one transaction that executes pre (plain statements) and then
// bulk loads rows into table through COPY.
func (r *disclosureRepository) copyIn(pre []stmtArgs, table string, columns []string, rows [][]interface{}) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, p := range pre {
		if _, err := tx.Exec(p.query, p.args...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	stmt, err := tx.Prepare(pq.CopyIn(table, columns...))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}
	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type stmtArgs struct {
	query string
	args  []interface{}
}

// ReplaceCorpCodes swaps the stored registry for records in a single transaction.
func (r *disclosureRepository) ReplaceCorpCodes(records []models.CorporateRecord) error {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []interface{}{rec.CorpCode, rec.CorpName, rec.StockCode, rec.ModifyDate})
	}
	return r.copyIn(
		[]stmtArgs{{query: `DELETE FROM corp_codes`}},
		"corp_codes",
		[]string{"corp_code", "corp_name", "stock_code", "modify_date"},
		rows,
	)
}

// ReplaceLineItems stores the line items of one corp/year, replacing earlier rows.
// The item order is kept in the ordinal column; thstrm_amount is parsed when numeric.
func (r *disclosureRepository) ReplaceLineItems(corpCode string, year int, items []models.LineItem) error {
	rows := make([][]interface{}, 0, len(items))
	for i, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode line item %d: %w", i, err)
		}
		account, _ := it.Get("account_nm")
		rows = append(rows, []interface{}{corpCode, year, i, account, parseAmount(it), string(payload)})
	}
	return r.copyIn(
		[]stmtArgs{{query: `DELETE FROM financial_line_items WHERE corp_code = $1 AND bsns_year = $2`, args: []interface{}{corpCode, year}}},
		"financial_line_items",
		[]string{"corp_code", "bsns_year", "ordinal", "account_nm", "thstrm_amount", "payload"},
		rows,
	)
}

// parseAmount reads thstrm_amount (current term amount) as a decimal.
// Blank, "-" and other non-numeric values map to NULL.
func parseAmount(it models.LineItem) decimal.NullDecimal {
	raw, ok := it.Get("thstrm_amount")
	if !ok {
		return decimal.NullDecimal{}
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// FindCorpsByName returns registry entries whose name matches exactly.
func (r *disclosureRepository) FindCorpsByName(ctx context.Context, name string) ([]models.CorporateRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT corp_code, corp_name, stock_code, modify_date FROM corp_codes WHERE corp_name = $1 ORDER BY corp_code`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.CorporateRecord
	for rows.Next() {
		var rec models.CorporateRecord
		if err := rows.Scan(&rec.CorpCode, &rec.CorpName, &rec.StockCode, &rec.ModifyDate); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetCorp returns one registry entry, or nil when the code is unknown.
func (r *disclosureRepository) GetCorp(ctx context.Context, corpCode string) (*models.CorporateRecord, error) {
	var rec models.CorporateRecord
	err := r.db.QueryRowContext(ctx, `SELECT corp_code, corp_name, stock_code, modify_date FROM corp_codes WHERE corp_code = $1`, corpCode).
		Scan(&rec.CorpCode, &rec.CorpName, &rec.StockCode, &rec.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListLineItems returns stored items for a corp in [startYear, endYear], ascending year then original order.
func (r *disclosureRepository) ListLineItems(ctx context.Context, corpCode string, startYear, endYear int) ([]models.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload
		FROM financial_line_items
		WHERE corp_code = $1 AND bsns_year BETWEEN $2 AND $3
		ORDER BY bsns_year, ordinal
	`, corpCode, startYear, endYear)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.LineItem
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var it models.LineItem
		if err := json.Unmarshal(payload, &it); err != nil {
			return nil, fmt.Errorf("decode stored line item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// FetchedKeys reports which of keys have a fetch log entry of kind, in one query.
// Keys without an entry are absent from the returned map.
func (r *disclosureRepository) FetchedKeys(ctx context.Context, kind string, keys []string) (map[string]bool, error) {
	out := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM fetch_log WHERE kind = $1 AND key = ANY($2)`, kind, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out[key] = true
	}
	return out, rows.Err()
}

// UpsertFetchLog records (or updates) a fetch entry.
func (r *disclosureRepository) UpsertFetchLog(kind, key string, rowCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO fetch_log (kind, key, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, key)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  fetched_at = NOW()
	`, kind, key, rowCount)
	return err
}
