package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/artravi/etf_tracker_dashboard/config"
	"github.com/artravi/etf_tracker_dashboard/internal/chartRenderer"
	"github.com/artravi/etf_tracker_dashboard/internal/externalApi/yahooApi"
	"github.com/artravi/etf_tracker_dashboard/internal/reportGenerator/csvGenerator"
	"github.com/artravi/etf_tracker_dashboard/internal/reportGenerator/xlsxGenerator"
	"github.com/artravi/etf_tracker_dashboard/internal/service/trackerService"
	"github.com/artravi/etf_tracker_dashboard/internal/transport/web"
	"github.com/artravi/etf_tracker_dashboard/internal/webserver"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	yahooApiClient := yahooApi.New(cfg)

	trackerSrv := trackerService.New(cfg, yahooApiClient)

	ctrl := web.NewController(cfg, trackerSrv, chartRenderer.New(), csvGenerator.New(), xlsxGenerator.New())

	server := webserver.New(cfg, ctrl)
	server.Start()
	defer server.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
