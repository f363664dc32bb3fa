package webserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/transport/web"
	"github.com/artravi/etf_tracker_dashboard/internal/transport/web/middleware"
)

type Webserver struct {
	cfg *config.Config
	srv *http.Server
}

func New(cfg *config.Config, ctrl *web.Controller) *Webserver {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ctrl.Dashboard)
	mux.HandleFunc("GET /charts/cumulative.png", ctrl.CumulativeChart)
	mux.HandleFunc("GET /charts/portfolio.png", ctrl.PortfolioChart)
	mux.HandleFunc("GET /export/prices.csv", ctrl.PricesCSV)
	mux.HandleFunc("GET /export/daily_returns.csv", ctrl.DailyReturnsCSV)
	mux.HandleFunc("GET /export/portfolio_returns.csv", ctrl.PortfolioReturnsCSV)
	mux.HandleFunc("GET /export/report.xlsx", ctrl.XLSXReport)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      middleware.Logger(mux),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Webserver{cfg: cfg, srv: srv}
}

func (s *Webserver) Start() {
	go func() {
		slog.Info("webserver listening", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("webserver stopped with error", slog.String("err", err.Error()))
		}
	}()
}

func (s *Webserver) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("webserver shutdown error", slog.String("err", err.Error()))
	}
}
