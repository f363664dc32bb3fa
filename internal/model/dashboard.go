package model

import "time"

// Dashboard is the output of one full pipeline run. Every field is derived
// once and never mutated afterwards.
type Dashboard struct {
	Spec  PortfolioSpec
	Dates []time.Time

	Prices            map[string][]float64
	DailyReturns      map[string][]float64
	CumulativeReturns map[string][]float64

	PortfolioDaily      []float64
	PortfolioCumulative []float64

	Metrics RiskMetrics
}
