package analytics

import "math"

// DailyReturns computes the percentage change between consecutive closes.
// The first entry is NaN (no prior day), and a NaN close on either side of a
// step makes that step NaN.
func DailyReturns(prices []float64) []float64 {
	returns := make([]float64, len(prices))
	if len(returns) == 0 {
		return returns
	}
	returns[0] = math.NaN()
	for t := 1; t < len(prices); t++ {
		returns[t] = (prices[t] - prices[t-1]) / prices[t-1]
	}
	return returns
}

// CumulativeReturns compounds (1+r) over the series, minus 1. NaN entries
// stay NaN in the output but do not reset the running product, matching the
// skip-missing compounding of the usual dataframe cumprod.
func CumulativeReturns(daily []float64) []float64 {
	out := make([]float64, len(daily))
	wealth := 1.0
	for i, r := range daily {
		if math.IsNaN(r) {
			out[i] = math.NaN()
			continue
		}
		wealth *= 1 + r
		out[i] = wealth - 1
	}
	return out
}

// WeightedReturns computes the per-date dot product of the tickers' daily
// returns against the weight vector. A NaN contribution from any ticker makes
// the whole date NaN; there is no partial-sum policy.
func WeightedReturns(returns map[string][]float64, tickers []string, weights []float64) []float64 {
	if len(tickers) == 0 {
		return nil
	}
	n := len(returns[tickers[0]])
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		sum := 0.0
		for i, ticker := range tickers {
			sum += returns[ticker][t] * weights[i]
		}
		out[t] = sum
	}
	return out
}
