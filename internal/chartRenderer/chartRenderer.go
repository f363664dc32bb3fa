package chartRenderer

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/utils"
	"github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2"
)

type ChartRenderer struct{}

func New() *ChartRenderer {
	return &ChartRenderer{}
}

// CumulativeReturnsChart renders one line per ticker, legend labeled by
// ticker, values in percent.
func (r *ChartRenderer) CumulativeReturnsChart(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ChartRenderer.CumulativeReturnsChart"

	slog.Debug("CumulativeReturnsChart start", slog.String("rqID", rqID), slog.String("op", op))

	values := make([][]float64, 0, len(dashboard.Spec.Tickers))
	for _, ticker := range dashboard.Spec.Tickers {
		values = append(values, toPercentSeries(dashboard.CumulativeReturns[ticker]))
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = dashboard.Spec.Tickers[i]
	}

	painter, err := charts.Render(
		charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Cumulative Returns"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels(dashboard.Dates),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitNumber(len(dashboard.Dates)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: dashboard.Spec.Tickers}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		slog.Error("got error rendering chart", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	imgBytes, err := painter.Bytes()
	if err != nil {
		slog.Error("got error getting chart bytes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("CumulativeReturnsChart completed", slog.String("rqID", rqID), slog.String("op", op))

	return imgBytes, nil
}

// PortfolioChart renders the portfolio cumulative return as one line with a
// heavier stroke than the per-ticker chart.
func (r *ChartRenderer) PortfolioChart(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ChartRenderer.PortfolioChart"

	slog.Debug("PortfolioChart start", slog.String("rqID", rqID), slog.String("op", op))

	values := [][]float64{toPercentSeries(dashboard.PortfolioCumulative)}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	seriesList[0].Name = "Portfolio"
	seriesList[0].Style = chart.Style{StrokeWidth: 2.5}

	painter, err := charts.Render(
		charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Portfolio Cumulative Return"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels(dashboard.Dates),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitNumber(len(dashboard.Dates)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{"Portfolio"}}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		slog.Error("got error rendering chart", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	imgBytes, err := painter.Bytes()
	if err != nil {
		slog.Error("got error getting chart bytes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("PortfolioChart completed", slog.String("rqID", rqID), slog.String("op", op))

	return imgBytes, nil
}

// toPercentSeries scales to percent and maps NaN to the chart library's null
// value so missing dates show as gaps instead of zeros.
func toPercentSeries(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		if math.IsNaN(v) {
			out[i] = charts.GetNullValue()
			continue
		}
		out[i] = v * 100
	}
	return out
}

func xLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format("2006-01-02")
	}
	return labels
}

func splitNumber(n int) int {
	if n <= 30 {
		return 5
	}
	return 10
}
