package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/model"
	"github.com/artravi/etf_tracker_dashboard/internal/service"
	"github.com/artravi/etf_tracker_dashboard/utils"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

type TrackerService interface {
	BuildDashboard(ctx context.Context, rawTickers, rawPeriod, rawWeights string) (model.Dashboard, error)
}

type ChartRenderer interface {
	CumulativeReturnsChart(ctx context.Context, dashboard model.Dashboard) ([]byte, error)
	PortfolioChart(ctx context.Context, dashboard model.Dashboard) ([]byte, error)
}

type CSVGenerator interface {
	PricesCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error)
	DailyReturnsCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error)
	PortfolioReturnsCSV(ctx context.Context, dashboard model.Dashboard) ([]byte, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error)
}

type Controller struct {
	cfg             *config.Config
	trackerService  TrackerService
	chartRenderer   ChartRenderer
	csvGenerator    CSVGenerator
	reportGenerator ReportGenerator
	tmpl            *template.Template
}

func NewController(cfg *config.Config, trackerService TrackerService, chartRenderer ChartRenderer, csvGenerator CSVGenerator, reportGenerator ReportGenerator) *Controller {
	tmpl := template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))
	return &Controller{
		cfg:             cfg,
		trackerService:  trackerService,
		chartRenderer:   chartRenderer,
		csvGenerator:    csvGenerator,
		reportGenerator: reportGenerator,
		tmpl:            tmpl,
	}
}

type metricsView struct {
	AnnualizedReturn     string
	AnnualizedVolatility string
	SharpeRatio          string
	MaxDrawdown          string
}

type dashboardView struct {
	Tickers   string
	Weights   string
	Period    string
	Periods   []model.Period
	Error     string
	HasResult bool
	Metrics   metricsView
	Query     template.URL
}

type pipelineParams struct {
	tickers string
	period  string
	weights string
}

func paramsFromRequest(r *http.Request) (pipelineParams, bool) {
	q := r.URL.Query()
	p := pipelineParams{
		tickers: q.Get("tickers"),
		period:  q.Get("period"),
		weights: q.Get("weights"),
	}
	submitted := q.Has("tickers") || q.Has("period") || q.Has("weights")
	return p, submitted
}

func (p pipelineParams) encode() string {
	q := url.Values{}
	q.Set("tickers", p.tickers)
	q.Set("period", p.period)
	q.Set("weights", p.weights)
	return q.Encode()
}

// Dashboard renders the single page: input form, metric cards, chart images
// and export links. Without query parameters it shows the prefilled form.
func (ctrl *Controller) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	params, submitted := paramsFromRequest(r)
	if !submitted {
		params = pipelineParams{
			tickers: ctrl.cfg.Dashboard.DefaultTickers,
			period:  ctrl.cfg.Dashboard.DefaultPeriod,
			weights: ctrl.cfg.Dashboard.DefaultWeights,
		}
		ctrl.renderPage(w, http.StatusOK, dashboardView{
			Tickers: params.tickers,
			Weights: params.weights,
			Period:  params.period,
			Periods: model.Periods(),
		})
		return
	}

	view := dashboardView{
		Tickers: params.tickers,
		Weights: params.weights,
		Period:  params.period,
		Periods: model.Periods(),
	}

	dashboard, err := ctrl.trackerService.BuildDashboard(ctx, params.tickers, params.period, params.weights)
	if err != nil {
		status := http.StatusBadGateway
		if isValidationError(err) {
			status = http.StatusUnprocessableEntity
		}
		slog.Error("got error from trackerService.BuildDashboard", slog.String("rqID", rqID), slog.String("err", err.Error()))
		view.Error = userMessage(err)
		ctrl.renderPage(w, status, view)
		return
	}

	view.HasResult = true
	view.Metrics = metricsView{
		AnnualizedReturn:     fmt.Sprintf("%.2f%%", dashboard.Metrics.AnnualizedReturn*100),
		AnnualizedVolatility: fmt.Sprintf("%.2f%%", dashboard.Metrics.AnnualizedVolatility*100),
		SharpeRatio:          fmt.Sprintf("%.2f", dashboard.Metrics.SharpeRatio),
		MaxDrawdown:          fmt.Sprintf("%.2f%%", dashboard.Metrics.MaxDrawdown*100),
	}
	view.Query = template.URL(params.encode())

	ctrl.renderPage(w, http.StatusOK, view)
}

func (ctrl *Controller) CumulativeChart(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "image/png", "", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		return ctrl.chartRenderer.CumulativeReturnsChart(ctx, dashboard)
	})
}

func (ctrl *Controller) PortfolioChart(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "image/png", "", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		return ctrl.chartRenderer.PortfolioChart(ctx, dashboard)
	})
}

func (ctrl *Controller) PricesCSV(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "text/csv", "etf_prices.csv", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		return ctrl.csvGenerator.PricesCSV(ctx, dashboard)
	})
}

func (ctrl *Controller) DailyReturnsCSV(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "text/csv", "etf_daily_returns.csv", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		return ctrl.csvGenerator.DailyReturnsCSV(ctx, dashboard)
	})
}

func (ctrl *Controller) PortfolioReturnsCSV(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "text/csv", "portfolio_daily_returns.csv", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		return ctrl.csvGenerator.PortfolioReturnsCSV(ctx, dashboard)
	})
}

func (ctrl *Controller) XLSXReport(w http.ResponseWriter, r *http.Request) {
	ctrl.servePipelineResult(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "etf_report.xlsx", func(ctx context.Context, dashboard model.Dashboard) ([]byte, error) {
		fileBytes, _, err := ctrl.reportGenerator.Generate(ctx, dashboard)
		return fileBytes, err
	})
}

// servePipelineResult reruns the full pipeline from the query parameters and
// streams whatever the render function produces. Each call is an independent
// run, nothing is shared between requests.
func (ctrl *Controller) servePipelineResult(w http.ResponseWriter, r *http.Request, contentType string, filename string, render func(ctx context.Context, dashboard model.Dashboard) ([]byte, error)) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	params, _ := paramsFromRequest(r)

	dashboard, err := ctrl.trackerService.BuildDashboard(ctx, params.tickers, params.period, params.weights)
	if err != nil {
		slog.Error("got error from trackerService.BuildDashboard", slog.String("rqID", rqID), slog.String("err", err.Error()))
		if isValidationError(err) {
			http.Error(w, userMessage(err), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "data fetch failed", http.StatusBadGateway)
		return
	}

	body, err := render(ctx, dashboard)
	if err != nil {
		slog.Error("got error rendering pipeline result", slog.String("rqID", rqID), slog.String("err", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (ctrl *Controller) renderPage(w http.ResponseWriter, status int, view dashboardView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := ctrl.tmpl.Execute(w, view); err != nil {
		slog.Error("got error executing dashboard template", slog.String("err", err.Error()))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrNoTickers) ||
		errors.Is(err, service.ErrInvalidPeriod) ||
		errors.Is(err, service.ErrInvalidWeight) ||
		errors.Is(err, service.ErrWeightsCountMismatch) ||
		errors.Is(err, service.ErrWeightsSumInvalid)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoTickers):
		return "Enter at least one ticker"
	case errors.Is(err, service.ErrInvalidPeriod):
		return "Select one of the supported periods"
	case errors.Is(err, service.ErrInvalidWeight):
		return "Weights must be decimal numbers"
	case errors.Is(err, service.ErrWeightsCountMismatch):
		return "Number of weights must match number of ETFs"
	case errors.Is(err, service.ErrWeightsSumInvalid):
		return "Weights must sum to 1. Please adjust."
	}
	return "Failed to fetch market data, try again later"
}
