package yahooApi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/externalApi"
	"github.com/artravi/etf_tracker_dashboard/internal/model"
)

// trading days 2025-06-02..2025-06-04, at 14:00 UTC like real bars
const (
	ts1 = 1748822400 + 50400
	ts2 = 1748908800 + 50400
	ts3 = 1748995200 + 50400
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *YahooApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.YahooApi.Url = srv.URL
	return New(cfg)
}

func TestGetDailyClosesAlignsOnUnionOfDates(t *testing.T) {
	var gotQuery map[string]string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"symbols":  r.URL.Query().Get("symbols"),
			"range":    r.URL.Query().Get("range"),
			"interval": r.URL.Query().Get("interval"),
		}
		fmt.Fprintf(w, `{"spark":{"result":[
			{"symbol":"XLK","response":[{"timestamp":[%d,%d,%d],"close":[100,101,null]}]},
			{"symbol":"SPY","response":[{"timestamp":[%d,%d],"close":[50,51]}]}
		],"error":null}}`, ts1, ts2, ts3, ts2, ts3)
	})

	table, err := api.GetDailyCloses(context.Background(), []string{"XLK", "SPY"}, model.Period1Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["symbols"] != "XLK,SPY" || gotQuery["range"] != "1y" || gotQuery["interval"] != "1d" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}

	if len(table.Dates) != 3 {
		t.Fatalf("got %d dates, want 3", len(table.Dates))
	}
	want := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	if !table.Dates[0].Equal(want) {
		t.Errorf("dates[0] = %v, want %v", table.Dates[0], want)
	}

	xlk := table.Closes["XLK"]
	if xlk[0] != 100 || xlk[1] != 101 {
		t.Errorf("XLK closes = %v", xlk)
	}
	// null close stays missing
	if !math.IsNaN(xlk[2]) {
		t.Errorf("XLK close on null date = %v, want NaN", xlk[2])
	}

	spy := table.Closes["SPY"]
	// SPY has no bar on the first date, filled with NaN not interpolated
	if !math.IsNaN(spy[0]) {
		t.Errorf("SPY close on absent date = %v, want NaN", spy[0])
	}
	if spy[1] != 50 || spy[2] != 51 {
		t.Errorf("SPY closes = %v", spy)
	}
}

func TestGetDailyClosesUnknownTicker(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"spark":{"result":[
			{"symbol":"XLK","response":[{"timestamp":[%d],"close":[100]}]}
		],"error":null}}`, ts1)
	})

	_, err := api.GetDailyCloses(context.Background(), []string{"XLK", "NOPE"}, model.Period6Mo)
	if !errors.Is(err, externalApi.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, externalApi.ErrNotFound)
	}
}

func TestGetDailyClosesEmptyResult(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"spark":{"result":[],"error":null}}`)
	})

	_, err := api.GetDailyCloses(context.Background(), []string{"XLK"}, model.Period1Y)
	if !errors.Is(err, externalApi.ErrEmptyResult) {
		t.Fatalf("err = %v, want %v", err, externalApi.ErrEmptyResult)
	}
}

func TestGetDailyClosesProviderError(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Edge: Too Many Requests", http.StatusTooManyRequests)
	})

	_, err := api.GetDailyCloses(context.Background(), []string{"XLK"}, model.Period1Y)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
