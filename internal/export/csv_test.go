package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/dartpulse/internal/domain/models"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "output must start with a UTF-8 BOM")
	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCorpRecords(t *testing.T) {
	records := []models.CorporateRecord{
		{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930", ModifyDate: "20240101"},
		{CorpCode: "00434003", CorpName: "다코, 주식회사", ModifyDate: "20170630"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCorpRecords(&buf, records))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, RegistryHeader, rows[0])
	assert.Equal(t, []string{"00126380", "삼성전자", "005930", "20240101"}, rows[1])
	assert.Equal(t, []string{"00434003", "다코, 주식회사", "", "20170630"}, rows[2])
}

func TestWriteLineItems_HeaderUnion(t *testing.T) {
	items := []models.LineItem{
		models.NewLineItem("rcept_no", "1", "account_nm", "자산총계"),
		models.NewLineItem("rcept_no", "2", "thstrm_amount", "100"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLineItems(&buf, items))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"rcept_no", "account_nm", "thstrm_amount"}, rows[0])
	assert.Equal(t, []string{"1", "자산총계", ""}, rows[1])
	assert.Equal(t, []string{"2", "", "100"}, rows[2])
}

func TestFinancialsFileName(t *testing.T) {
	assert.Equal(t, "00126380_financials_2021_2025.csv", FinancialsFileName("00126380", 2021, 2025))
}

func TestWriteFile_ReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", RegistryFileName)

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("first"))
		return err
	}))
	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("second"))
		return err
	}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFile_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("boom")
	err := WriteFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
