package commands

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/dartpulse/config"
	"github.com/guttosm/dartpulse/internal/dart"
	"github.com/guttosm/dartpulse/internal/domain/models"
	"github.com/guttosm/dartpulse/internal/ingestion"
)

type fakeFetcher struct {
	records []models.CorporateRecord
	regErr  error
	years   []dart.YearResult
	finErr  error

	gotCorp          string
	gotStart, gotEnd int
}

func (f *fakeFetcher) FetchRegistry(context.Context) ([]models.CorporateRecord, error) {
	return f.records, f.regErr
}

func (f *fakeFetcher) FetchFinancials(_ context.Context, corp string, start, end int) (*dart.FinancialsResult, error) {
	f.gotCorp, f.gotStart, f.gotEnd = corp, start, end
	if f.finErr != nil {
		return nil, f.finErr
	}
	return &dart.FinancialsResult{CorpCode: corp, StartYear: start, EndYear: end, Years: f.years}, nil
}

// setup points the command indirections at fakes and returns the output dir.
func setup(t *testing.T, f *fakeFetcher) string {
	t.Helper()
	dir := t.TempDir()

	oldLoad, oldFetcher, oldStore := loadConfig, newFetcher, openStore
	loadConfig = func() (config.Config, error) {
		return config.Config{Output: config.OutputConfig{Dir: dir}, Server: config.ServerConfig{Port: "0"}}, nil
	}
	newFetcher = func(config.DartConfig) ingestion.Fetcher { return f }
	openStore = func(config.Config) (*sql.DB, error) { return nil, errors.New("no database in tests") }
	t.Cleanup(func() { loadConfig, newFetcher, openStore = oldLoad, oldFetcher, oldStore })

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegistry_WritesFileAndPrintsDemoMatch(t *testing.T) {
	dir := setup(t, &fakeFetcher{records: []models.CorporateRecord{
		{CorpCode: "00434003", CorpName: "다코"},
		{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930"},
	}})

	out, err := execute(t, "registry")
	require.NoError(t, err)
	assert.Equal(t, "00126380\n", out)
	assert.FileExists(t, filepath.Join(dir, "dart_corp_codes.csv"))
}

func TestRegistry_NoMatchIsNotAnError(t *testing.T) {
	setup(t, &fakeFetcher{records: []models.CorporateRecord{{CorpCode: "00434003", CorpName: "다코"}}})

	out, err := execute(t, "registry", "--demo-name", "없는회사")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRegistry_EmptyRegistryIsSoftFailure(t *testing.T) {
	dir := setup(t, &fakeFetcher{regErr: dart.ErrNoRecords})

	_, err := execute(t, "registry")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "dart_corp_codes.csv"))
}

func TestRegistry_NetworkErrorFails(t *testing.T) {
	setup(t, &fakeFetcher{regErr: dart.ErrNetwork})

	_, err := execute(t, "registry")
	assert.ErrorIs(t, err, dart.ErrNetwork)
}

func TestRegistry_StoreFailureStopsBeforeFetch(t *testing.T) {
	f := &fakeFetcher{regErr: errors.New("must not be called")}
	setup(t, f)

	_, err := execute(t, "registry", "--store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store")
}

func TestRegistry_OutputDirFlag(t *testing.T) {
	setup(t, &fakeFetcher{records: []models.CorporateRecord{{CorpCode: "00126380", CorpName: "삼성전자"}}})
	other := t.TempDir()

	_, err := execute(t, "registry", "--output-dir", other)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(other, "dart_corp_codes.csv"))
}

func TestFinancials_Defaults(t *testing.T) {
	f := &fakeFetcher{years: []dart.YearResult{
		{Year: 2021, Items: []models.LineItem{models.NewLineItem("bsns_year", "2021")}},
	}}
	dir := setup(t, f)

	_, err := execute(t, "financials")
	require.NoError(t, err)
	assert.Equal(t, "00126380", f.gotCorp)
	assert.Equal(t, 2021, f.gotStart)
	assert.Equal(t, 2025, f.gotEnd)
	assert.FileExists(t, filepath.Join(dir, "00126380_financials_2021_2025.csv"))
}

func TestFinancials_Flags(t *testing.T) {
	f := &fakeFetcher{years: []dart.YearResult{
		{Year: 2021, Items: []models.LineItem{models.NewLineItem("bsns_year", "2021")}},
	}}
	dir := setup(t, f)

	_, err := execute(t, "financials", "--corp", "00164779", "--start", "2021", "--end", "2021")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "00164779_financials_2021_2021.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\ufeffbsns_year\n2021\n", string(data))
}

func TestFinancials_NoDataIsSoftFailure(t *testing.T) {
	dir := setup(t, &fakeFetcher{years: []dart.YearResult{{Year: 2021, Err: dart.ErrNetwork}}})

	_, err := execute(t, "financials", "--start", "2021", "--end", "2021")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFinancials_MissingCredentialFails(t *testing.T) {
	setup(t, &fakeFetcher{finErr: dart.ErrConfig})

	_, err := execute(t, "financials")
	assert.ErrorIs(t, err, dart.ErrConfig)
}

func TestFinancials_EmptyCorpRejected(t *testing.T) {
	setup(t, &fakeFetcher{})

	_, err := execute(t, "financials", "--corp", "")
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cleaned := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, http.NotFoundHandler(), "0", func() { close(cleaned) })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
	select {
	case <-cleaned:
	default:
		t.Fatalf("cleanup not called")
	}
}

func TestServe_ListenFailure(t *testing.T) {
	called := false
	err := serve(context.Background(), http.NotFoundHandler(), "not-a-port", func() { called = true })
	assert.Error(t, err)
	assert.True(t, called)
}

func TestServe_InitFailure(t *testing.T) {
	setup(t, &fakeFetcher{})
	old := initializeApp
	initializeApp = func(config.Config) (*gin.Engine, func(), error) { return nil, nil, errors.New("db down") }
	t.Cleanup(func() { initializeApp = old })

	_, err := execute(t, "serve")
	assert.EqualError(t, err, "db down")
}
