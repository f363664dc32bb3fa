package model

import "time"

// Period is the lookback window for the price history request.
type Period string

const (
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
)

func Periods() []Period {
	return []Period{Period6Mo, Period1Y, Period2Y, Period5Y}
}

func (p Period) IsValid() bool {
	switch p {
	case Period6Mo, Period1Y, Period2Y, Period5Y:
		return true
	}
	return false
}

// PortfolioSpec is the validated user input: tickers and weights are parallel
// slices of equal length, weights sum to 1 within tolerance.
type PortfolioSpec struct {
	Tickers []string
	Weights []float64
	Period  Period
}

// PriceTable holds daily closes per ticker aligned on a shared date index.
// A ticker with no bar on a given date carries math.NaN() at that position.
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Closes  map[string][]float64
}

type RiskMetrics struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
}
