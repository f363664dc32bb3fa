package analytics

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

func TestDailyReturns(t *testing.T) {
	prices := []float64{100, 101, 99.99, 99.99}
	got := DailyReturns(prices)

	want := []float64{math.NaN(), 0.01, -0.0101, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-6) {
			t.Errorf("returns[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDailyReturnsPropagatesMissing(t *testing.T) {
	prices := []float64{100, math.NaN(), 102, 103}
	got := DailyReturns(prices)

	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
		t.Errorf("expected NaN at positions 0..2, got %v", got)
	}
	if !almostEqual(got[3], 103.0/102.0-1, tolerance) {
		t.Errorf("returns[3] = %v", got[3])
	}
}

func TestDailyReturnsEmptyAndSingle(t *testing.T) {
	if got := DailyReturns(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	got := DailyReturns([]float64{100})
	if len(got) != 1 || !math.IsNaN(got[0]) {
		t.Errorf("expected single NaN, got %v", got)
	}
}

// For a series without missing values, cumulative[t]+1 must equal the running
// product of (1+daily[i]) for i <= t.
func TestCumulativeReturnsCompoundingIdentity(t *testing.T) {
	daily := []float64{0.01, -0.02, 0.03, 0.005, -0.01}
	cumulative := CumulativeReturns(daily)

	product := 1.0
	for i, r := range daily {
		product *= 1 + r
		if !almostEqual(cumulative[i]+1, product, tolerance) {
			t.Errorf("cumulative[%d]+1 = %v, want %v", i, cumulative[i]+1, product)
		}
	}
}

func TestCumulativeReturnsSkipsMissingWithoutReset(t *testing.T) {
	daily := []float64{0.02, math.NaN(), 0.01}
	got := CumulativeReturns(daily)

	if !almostEqual(got[0], 0.02, tolerance) {
		t.Errorf("cumulative[0] = %v", got[0])
	}
	if !math.IsNaN(got[1]) {
		t.Errorf("cumulative[1] = %v, want NaN", got[1])
	}
	// the NaN date is skipped, not treated as a reset
	if !almostEqual(got[2], 1.02*1.01-1, tolerance) {
		t.Errorf("cumulative[2] = %v", got[2])
	}
}

func TestWeightedReturns(t *testing.T) {
	returns := map[string][]float64{
		"A": {0.01, -0.02},
		"B": {0.03, 0.01},
	}
	got := WeightedReturns(returns, []string{"A", "B"}, []float64{0.5, 0.5})

	want := []float64{0.02, -0.005}
	for i := range want {
		if !almostEqual(got[i], want[i], tolerance) {
			t.Errorf("portfolio[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	cumulative := CumulativeReturns(got)
	if !almostEqual(cumulative[0], 0.02, 1e-4) || !almostEqual(cumulative[1], 0.01490, 1e-4) {
		t.Errorf("portfolio cumulative = %v", cumulative)
	}
}

// Equal constant returns across tickers with weights summing to 1 must give
// the same constant for the portfolio.
func TestWeightedReturnsConstantAcrossTickers(t *testing.T) {
	const r = 0.0123
	returns := map[string][]float64{
		"A": {r, r, r},
		"B": {r, r, r},
		"C": {r, r, r},
	}
	got := WeightedReturns(returns, []string{"A", "B", "C"}, []float64{0.2, 0.3, 0.5})

	for i, v := range got {
		if !almostEqual(v, r, tolerance) {
			t.Errorf("portfolio[%d] = %v, want %v", i, v, r)
		}
	}
}

func TestWeightedReturnsMissingContributionPoisonsDate(t *testing.T) {
	returns := map[string][]float64{
		"A": {0.01, math.NaN()},
		"B": {0.03, 0.01},
	}
	got := WeightedReturns(returns, []string{"A", "B"}, []float64{0.5, 0.5})

	if !almostEqual(got[0], 0.02, tolerance) {
		t.Errorf("portfolio[0] = %v", got[0])
	}
	if !math.IsNaN(got[1]) {
		t.Errorf("portfolio[1] = %v, want NaN", got[1])
	}
}
