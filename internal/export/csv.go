package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guttosm/dartpulse/internal/domain/models"
)

// RegistryFileName is the fixed output name of the registry export.
const RegistryFileName = "dart_corp_codes.csv"

// utf8BOM lets spreadsheet applications detect UTF-8 (Korean names render correctly in Excel).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RegistryHeader is the header row of the registry export.
var RegistryHeader = []string{"corp_code", "corp_name", "stock_code", "modify_date"}

// FinancialsFileName returns the export name for one identifier and year range.
func FinancialsFileName(corpCode string, startYear, endYear int) string {
	return fmt.Sprintf("%s_financials_%d_%d.csv", corpCode, startYear, endYear)
}

// WriteCorpRecords writes the registry as BOM-prefixed CSV: one header row, one row per record.
func WriteCorpRecords(w io.Writer, records []models.CorporateRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(RegistryHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write([]string{r.CorpCode, r.CorpName, r.StockCode, r.ModifyDate}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLineItems writes financial line items as BOM-prefixed CSV.
// The header is the union of all item keys in first-seen order; a key an item
// lacks becomes an empty cell.
func WriteLineItems(w io.Writer, items []models.LineItem) error {
	header := models.KeyUnion(items)

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(header))
	for i, it := range items {
		for j, k := range header {
			row[j], _ = it.Get(k)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile replaces path with whatever fn writes. Output goes to a temporary
// file in the same directory that is renamed over path only after fn and the
// close succeed, so a failed export never leaves a partial file behind.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %q: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %q: %w", path, err)
	}
	return nil
}
