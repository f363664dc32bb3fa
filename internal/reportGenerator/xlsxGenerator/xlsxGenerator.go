package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/utils"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate builds a single workbook holding the risk metrics plus the three
// tabular exports, one sheet each.
func (g *XLSXGenerator) Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSummarySheet(f, dashboard); err != nil {
		slog.Error("got error filling summary sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	sheets := []struct {
		name    string
		columns []string
		values  map[string][]float64
	}{
		{"Prices", dashboard.Spec.Tickers, dashboard.Prices},
		{"Daily Returns", dashboard.Spec.Tickers, dashboard.DailyReturns},
		{"Portfolio Returns", []string{"portfolio"}, map[string][]float64{"portfolio": dashboard.PortfolioDaily}},
	}
	for _, sheet := range sheets {
		if err := g.fillTableSheet(f, sheet.name, dashboard.Dates, sheet.columns, sheet.values); err != nil {
			slog.Error("got error filling table sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("sheet", sheet.name), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSummarySheet(f *excelize.File, dashboard model.Dashboard) error {
	const sheetName = "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "Portfolio Risk Metrics")

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return err
	}

	rows := []struct {
		label string
		value float64
	}{
		{"Annualized Return", dashboard.Metrics.AnnualizedReturn},
		{"Annualized Volatility", dashboard.Metrics.AnnualizedVolatility},
		{"Sharpe Ratio", dashboard.Metrics.SharpeRatio},
		{"Max Drawdown", dashboard.Metrics.MaxDrawdown},
	}
	for i, row := range rows {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", i+2), row.label)
		setNumericCell(f, sheetName, fmt.Sprintf("B%d", i+2), row.value)
	}

	return nil
}

func (g *XLSXGenerator) fillTableSheet(f *excelize.File, sheetName string, dates []time.Time, columns []string, values map[string][]float64) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A1", "Date")
	for j, column := range columns {
		cell, err := excelize.CoordinatesToCellName(j+2, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(sheetName, cell, column)
	}

	for i, date := range dates {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", i+2), date.Format("2006-01-02"))
		for j, column := range columns {
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return err
			}
			setNumericCell(f, sheetName, cell, values[column][i])
		}
	}

	return nil
}

// non-finite values can't live in a numeric cell, keep them as text
func setNumericCell(f *excelize.File, sheetName, cell string, v float64) {
	if math.IsNaN(v) {
		return
	}
	if math.IsInf(v, 0) {
		_ = f.SetCellStr(sheetName, cell, fmt.Sprintf("%v", v))
		return
	}
	_ = f.SetCellValue(sheetName, cell, v)
}
