package csvGenerator

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/utils"
)

const dateLayout = "2006-01-02"

type CSVGenerator struct{}

func New() *CSVGenerator {
	return &CSVGenerator{}
}

// PricesCSV serializes the raw closing prices, one column per ticker.
func (g *CSVGenerator) PricesCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
	return g.generate(ctx, "CSVGenerator.PricesCSV", dashboard.Dates, dashboard.Spec.Tickers, dashboard.Prices)
}

// DailyReturnsCSV serializes the per-ticker daily return series.
func (g *CSVGenerator) DailyReturnsCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
	return g.generate(ctx, "CSVGenerator.DailyReturnsCSV", dashboard.Dates, dashboard.Spec.Tickers, dashboard.DailyReturns)
}

// PortfolioReturnsCSV serializes the weighted portfolio daily return series.
func (g *CSVGenerator) PortfolioReturnsCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
	columns := map[string][]float64{"portfolio": dashboard.PortfolioDaily}
	return g.generate(ctx, "CSVGenerator.PortfolioReturnsCSV", dashboard.Dates, []string{"portfolio"}, columns)
}

func (g *CSVGenerator) generate(ctx context.Context, op string, dates []time.Time, names []string, columns map[string][]float64) ([]byte, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("generate start", slog.String("rqID", rqID), slog.String("op", op))

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := append([]string{"Date"}, names...)
	if err := w.Write(header); err != nil {
		slog.Error("got error writing csv header", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	row := make([]string, len(header))
	for i, date := range dates {
		row[0] = date.Format(dateLayout)
		for j, name := range names {
			row[j+1] = formatValue(columns[name][i])
		}
		if err := w.Write(row); err != nil {
			slog.Error("got error writing csv row", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("got error flushing csv", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), nil
}

// missing values are rendered as empty cells
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
