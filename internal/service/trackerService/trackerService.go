package trackerService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/analytics"
	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/internal/service"
	"github.com/artravi/etf_tracker_dashboard/utils"
	"github.com/shopspring/decimal"
)

// weight sum must land within this distance of 1
var weightSumTolerance = decimal.NewFromFloat(0.001)

type MarketApi interface {
	GetDailyCloses(ctx context.Context, tickers []string, period model.Period) (model.PriceTable, error)
}

type TrackerService struct {
	cfg       *config.Config
	marketApi MarketApi
}

func New(cfg *config.Config, marketApi MarketApi) *TrackerService {
	return &TrackerService{
		cfg:       cfg,
		marketApi: marketApi,
	}
}

// ParsePortfolioSpec turns the raw form inputs into a validated spec.
// It never touches the network; every validation failure halts the run
// before any fetch happens.
func (s *TrackerService) ParsePortfolioSpec(rawTickers, rawPeriod, rawWeights string) (model.PortfolioSpec, error) {
	tickers := make([]string, 0)
	for _, part := range strings.Split(rawTickers, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(part))
		if ticker == "" {
			continue
		}
		tickers = append(tickers, ticker)
	}
	if len(tickers) == 0 {
		return model.PortfolioSpec{}, service.ErrNoTickers
	}

	period := model.Period(strings.TrimSpace(rawPeriod))
	if !period.IsValid() {
		return model.PortfolioSpec{}, fmt.Errorf("%w: %s", service.ErrInvalidPeriod, rawPeriod)
	}

	weights := make([]float64, 0)
	weightSum := decimal.Zero
	for _, part := range strings.Split(rawWeights, ",") {
		raw := strings.TrimSpace(part)
		if raw == "" {
			continue
		}
		w, err := decimal.NewFromString(raw)
		if err != nil {
			return model.PortfolioSpec{}, fmt.Errorf("%w: %s", service.ErrInvalidWeight, raw)
		}
		weightSum = weightSum.Add(w)
		weights = append(weights, w.InexactFloat64())
	}

	if len(weights) != len(tickers) {
		return model.PortfolioSpec{}, fmt.Errorf("%w: %d weights for %d tickers", service.ErrWeightsCountMismatch, len(weights), len(tickers))
	}

	if weightSum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightSumTolerance) {
		return model.PortfolioSpec{}, fmt.Errorf("%w: sum is %s", service.ErrWeightsSumInvalid, weightSum.String())
	}

	return model.PortfolioSpec{Tickers: tickers, Weights: weights, Period: period}, nil
}

// BuildDashboard runs the whole pipeline for one request: validate inputs,
// fetch closing prices, derive return series and risk metrics. The result is
// immutable; every caller gets a fresh run.
func (s *TrackerService) BuildDashboard(ctx context.Context, rawTickers, rawPeriod, rawWeights string) (model.Dashboard, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.BuildDashboard"

	slog.Debug("BuildDashboard start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("BuildDashboard finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	spec, err := s.ParsePortfolioSpec(rawTickers, rawPeriod, rawWeights)
	if err != nil {
		slog.Error("portfolio spec validation failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, err
	}

	prices, err := s.marketApi.GetDailyCloses(ctx, spec.Tickers, spec.Period)
	if err != nil {
		slog.Error("got error from marketApi.GetDailyCloses", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, err
	}

	dailyReturns := make(map[string][]float64, len(spec.Tickers))
	cumulativeReturns := make(map[string][]float64, len(spec.Tickers))
	for _, ticker := range spec.Tickers {
		dailyReturns[ticker] = analytics.DailyReturns(prices.Closes[ticker])
		cumulativeReturns[ticker] = analytics.CumulativeReturns(dailyReturns[ticker])
	}

	portfolioDaily := analytics.WeightedReturns(dailyReturns, spec.Tickers, spec.Weights)
	portfolioCumulative := analytics.CumulativeReturns(portfolioDaily)

	annualReturn := analytics.AnnualizedReturn(portfolioDaily)
	annualVolatility := analytics.AnnualizedVolatility(portfolioDaily)

	metrics := model.RiskMetrics{
		AnnualizedReturn:     annualReturn,
		AnnualizedVolatility: annualVolatility,
		SharpeRatio:          analytics.SharpeRatio(annualReturn, annualVolatility),
		MaxDrawdown:          analytics.MaxDrawdown(portfolioDaily),
	}

	return model.Dashboard{
		Spec:                spec,
		Dates:               prices.Dates,
		Prices:              prices.Closes,
		DailyReturns:        dailyReturns,
		CumulativeReturns:   cumulativeReturns,
		PortfolioDaily:      portfolioDaily,
		PortfolioCumulative: portfolioCumulative,
		Metrics:             metrics,
	}, nil
}
