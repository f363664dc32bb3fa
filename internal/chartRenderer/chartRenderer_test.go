package chartRenderer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/vicanso/go-charts/v2"
)

func TestToPercentSeries(t *testing.T) {
	got := toPercentSeries([]float64{0.0123, math.NaN(), -0.05})

	if got[0] != 1.23 {
		t.Errorf("got[0] = %v, want 1.23", got[0])
	}
	if got[1] != charts.GetNullValue() {
		t.Errorf("missing value must map to the chart null value, got %v", got[1])
	}
	if got[2] != -5 {
		t.Errorf("got[2] = %v, want -5", got[2])
	}
}

func TestChartsRenderPNG(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
	}
	dashboard := model.Dashboard{
		Spec:  model.PortfolioSpec{Tickers: []string{"XLK", "SPY"}},
		Dates: []time.Time{day(2), day(3), day(4)},
		CumulativeReturns: map[string][]float64{
			"XLK": {math.NaN(), 0.01, 0.02},
			"SPY": {math.NaN(), 0.005, 0.015},
		},
		PortfolioCumulative: []float64{math.NaN(), 0.0075, 0.0175},
	}

	r := New()

	img, err := r.CumulativeReturnsChart(context.Background(), dashboard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(img) == 0 {
		t.Error("expected non-empty PNG bytes")
	}

	img, err = r.PortfolioChart(context.Background(), dashboard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(img) == 0 {
		t.Error("expected non-empty PNG bytes")
	}
}
