package analytics

import "math"

const tradingDaysPerYear = 252

// AnnualizedReturn is the mean daily return scaled by 252 trading days.
// NaN entries are excluded from the mean.
func AnnualizedReturn(daily []float64) float64 {
	return mean(daily) * tradingDaysPerYear
}

// AnnualizedVolatility is the sample standard deviation (N-1) of daily
// returns scaled by sqrt(252). NaN entries are excluded.
func AnnualizedVolatility(daily []float64) float64 {
	return stdDev(daily) * math.Sqrt(tradingDaysPerYear)
}

// SharpeRatio divides annualized return by annualized volatility. Zero
// volatility yields a non-finite value, which is reported as-is.
func SharpeRatio(annualReturn, annualVolatility float64) float64 {
	return annualReturn / annualVolatility
}

// DrawdownSeries tracks, per date, how far the compounded wealth curve sits
// below its running peak. NaN dates stay NaN without resetting the wealth.
func DrawdownSeries(daily []float64) []float64 {
	out := make([]float64, len(daily))
	wealth := 1.0
	peak := math.Inf(-1)
	for i, r := range daily {
		if math.IsNaN(r) {
			out[i] = math.NaN()
			continue
		}
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		out[i] = wealth/peak - 1
	}
	return out
}

// MaxDrawdown is the minimum of the drawdown series, always <= 0 when any
// observation exists. NaN when the series holds no observations.
func MaxDrawdown(daily []float64) float64 {
	min := math.NaN()
	for _, dd := range DrawdownSeries(daily) {
		if math.IsNaN(dd) {
			continue
		}
		if math.IsNaN(min) || dd < min {
			min = dd
		}
	}
	return min
}

func mean(values []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func stdDev(values []float64) float64 {
	m := mean(values)
	if math.IsNaN(m) {
		return math.NaN()
	}
	sum := 0.0
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		diff := v - m
		sum += diff * diff
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(n-1))
}
