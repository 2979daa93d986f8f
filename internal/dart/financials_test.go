package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/dartpulse/config"
)

// yearReply describes what the fake DART server answers for one bsns_year.
type yearReply struct {
	httpStatus int    // 0 means 200
	status     string // DART status
	message    string
	items      int
	raw        string // overrides the JSON body when set
}

func fakeStatements(t *testing.T, replies map[int]yearReply, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		q := r.URL.Query()
		assert.Equal(t, "/fnlttSinglAcntAll.json", r.URL.Path)
		assert.Equal(t, "11011", q.Get("reprt_code"))
		assert.Equal(t, "CFS", q.Get("fs_div"))
		assert.NotEmpty(t, q.Get("crtfc_key"))

		year, _ := strconv.Atoi(q.Get("bsns_year"))
		rep, ok := replies[year]
		if !ok {
			rep = yearReply{status: "013", message: "조회된 데이타가 없습니다."}
		}
		if rep.httpStatus != 0 {
			w.WriteHeader(rep.httpStatus)
			return
		}
		if rep.raw != "" {
			_, _ = w.Write([]byte(rep.raw))
			return
		}
		list := make([]map[string]string, 0, rep.items)
		for i := 0; i < rep.items; i++ {
			list = append(list, map[string]string{
				"bsns_year":  strconv.Itoa(year),
				"corp_code":  q.Get("corp_code"),
				"account_nm": fmt.Sprintf("account-%d", i),
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": rep.status, "message": rep.message, "list": list})
	}))
}

func newFinancialsClient(srv *httptest.Server, key string, parallel int) *Client {
	return NewClient(config.DartConfig{BaseURL: srv.URL, APIKey: key, Parallel: parallel}, WithHTTPClient(srv.Client()))
}

func TestFetchFinancials_MissingCredentialMakesNoCall(t *testing.T) {
	var hits int32
	srv := fakeStatements(t, nil, &hits)
	defer srv.Close()

	res, err := newFinancialsClient(srv, "", 1).FetchFinancials(context.Background(), "00126380", 2021, 2023)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Nil(t, res)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetchFinancials_SumsYearsInAscendingOrder(t *testing.T) {
	replies := map[int]yearReply{
		2019: {status: "000", items: 2},
		2020: {status: "000", items: 3},
		2021: {status: "000", items: 1},
		2022: {status: "000", items: 4},
	}
	for _, parallel := range []int{1, 3} {
		t.Run(fmt.Sprintf("parallel=%d", parallel), func(t *testing.T) {
			srv := fakeStatements(t, replies, nil)
			defer srv.Close()

			res, err := newFinancialsClient(srv, "key", parallel).FetchFinancials(context.Background(), "00126380", 2019, 2022)
			require.NoError(t, err)
			items := res.Items()
			require.Len(t, items, 10)
			assert.Empty(t, res.Failed())

			prev := 0
			for _, it := range items {
				y, _ := it.Get("bsns_year")
				year, _ := strconv.Atoi(y)
				assert.GreaterOrEqual(t, year, prev, "items must be in ascending year order")
				prev = year
			}
		})
	}
}

func TestFetchFinancials_FailingYearIsIsolated(t *testing.T) {
	replies := map[int]yearReply{
		2020: {status: "000", items: 2},
		2021: {status: "013", message: "조회된 데이타가 없습니다."},
		2022: {httpStatus: http.StatusBadGateway},
		2023: {raw: "{not json"},
		2024: {status: "000", items: 3},
		2025: {status: "000", items: 0},
	}
	srv := fakeStatements(t, replies, nil)
	defer srv.Close()

	res, err := newFinancialsClient(srv, "key", 2).FetchFinancials(context.Background(), "00126380", 2020, 2025)
	require.NoError(t, err)
	require.Len(t, res.Years, 6)

	assert.Len(t, res.Years[0].Items, 2)
	assert.ErrorIs(t, res.Years[1].Err, ErrAPILogic)
	assert.ErrorIs(t, res.Years[2].Err, ErrNetwork)
	assert.ErrorIs(t, res.Years[3].Err, ErrParse)
	assert.Len(t, res.Years[4].Items, 3)
	assert.ErrorIs(t, res.Years[5].Err, ErrAPILogic, "success status with empty list is an api logic failure")

	assert.Len(t, res.Items(), 5)
	assert.Len(t, res.Failed(), 4)

	var apiErr *APIError
	require.ErrorAs(t, res.Years[1].Err, &apiErr)
	assert.Equal(t, "013", apiErr.Status)
	require.ErrorAs(t, res.Years[5].Err, &apiErr)
	assert.Equal(t, "N/A", apiErr.Message)
}

func TestFetchFinancials_InvertedRangeRunsZeroTimes(t *testing.T) {
	var hits int32
	srv := fakeStatements(t, nil, &hits)
	defer srv.Close()

	res, err := newFinancialsClient(srv, "key", 1).FetchFinancials(context.Background(), "00126380", 2023, 2021)
	require.NoError(t, err)
	assert.Empty(t, res.Items())
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetchFinancials_SingleYearSingleItem(t *testing.T) {
	srv := fakeStatements(t, map[int]yearReply{2021: {status: "000", items: 1}}, nil)
	defer srv.Close()

	res, err := newFinancialsClient(srv, "key", 1).FetchFinancials(context.Background(), "00126380", 2021, 2021)
	require.NoError(t, err)
	require.Len(t, res.Items(), 1)
	code, _ := res.Items()[0].Get("corp_code")
	assert.Equal(t, "00126380", code)
}

func TestFetchFinancials_CanceledContext(t *testing.T) {
	srv := fakeStatements(t, map[int]yearReply{2021: {status: "000", items: 1}}, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newFinancialsClient(srv, "key", 1).FetchFinancials(ctx, "00126380", 2021, 2022)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Items())
}
