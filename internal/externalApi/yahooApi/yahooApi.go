package yahooApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/externalApi"
	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/internal/model/yahooModel"
	"github.com/artravi/etf_tracker_dashboard/utils"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url)
	return &YahooApi{client: client}
}

// GetDailyCloses requests daily closing prices for all tickers in one batched
// spark call and aligns them on the union of their trading days. Dates where
// a ticker has no bar are filled with NaN, never interpolated.
func (a *YahooApi) GetDailyCloses(ctx context.Context, tickers []string, period model.Period) (model.PriceTable, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetDailyCloses"

	url := "/v7/finance/spark"
	params := map[string]string{
		"symbols":  strings.Join(tickers, ","),
		"range":    string(period),
		"interval": "1d",
	}

	slog.Debug("GetDailyCloses start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("tickers", tickers), slog.String("period", string(period)))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PriceTable{}, err
	}

	if resp.IsError() {
		slog.Error("YahooApi returned error status", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return model.PriceTable{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode())
	}

	rawSpark := yahooModel.SparkResponse{}
	err = json.Unmarshal(resp.Body(), &rawSpark)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.SparkResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PriceTable{}, err
	}

	table, err := a.parseRawSpark(rawSpark, tickers)
	if err != nil {
		slog.Error("can't parse raw spark data", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PriceTable{}, err
	}

	slog.Debug("GetDailyCloses request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("dates", len(table.Dates)))

	return table, nil
}

func (a *YahooApi) parseRawSpark(rawSpark yahooModel.SparkResponse, tickers []string) (model.PriceTable, error) {
	if len(rawSpark.Spark.Result) == 0 {
		return model.PriceTable{}, externalApi.ErrEmptyResult
	}

	type series struct {
		timestamps []int64
		closes     []*float64
	}

	bySymbol := make(map[string]series, len(rawSpark.Spark.Result))
	for _, res := range rawSpark.Spark.Result {
		if len(res.Response) == 0 {
			continue
		}
		r := res.Response[0]
		if len(r.Timestamp) != len(r.Close) {
			return model.PriceTable{}, fmt.Errorf("lengths timestamp != close for symbol %s", res.Symbol)
		}
		bySymbol[strings.ToUpper(res.Symbol)] = series{timestamps: r.Timestamp, closes: r.Close}
	}

	// union of trading days across all tickers, at UTC midnight
	dateSet := make(map[time.Time]struct{})
	for _, ticker := range tickers {
		s, ok := bySymbol[ticker]
		if !ok || len(s.timestamps) == 0 {
			return model.PriceTable{}, fmt.Errorf("ticker %s: %w", ticker, externalApi.ErrNotFound)
		}
		for _, ts := range s.timestamps {
			dateSet[tradingDay(ts)] = struct{}{}
		}
	}

	if len(dateSet) == 0 {
		return model.PriceTable{}, externalApi.ErrEmptyResult
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	dateIdx := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}

	closes := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		s := bySymbol[ticker]
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for i, ts := range s.timestamps {
			if s.closes[i] == nil {
				continue
			}
			col[dateIdx[tradingDay(ts)]] = *s.closes[i]
		}
		closes[ticker] = col
	}

	return model.PriceTable{Dates: dates, Tickers: tickers, Closes: closes}, nil
}

func tradingDay(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
