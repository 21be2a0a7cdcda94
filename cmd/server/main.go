package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/orgreport/internal/app"
	"github.com/ogurasousui/orgreport/internal/platform/config"
	"github.com/ogurasousui/orgreport/internal/platform/logging"
	"github.com/ogurasousui/orgreport/internal/platform/metrics"
	"github.com/ogurasousui/orgreport/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("failed to initialize logger: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		logger.Fatalf("failed to initialize metrics: %v", err)
	}

	src, err := app.OpenSource(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open employee source: %v", err)
	}
	defer src.Close()

	reportSvc := app.NewReportService(src, cfg.Report, recorder)
	grpcServer := server.New(cfg.Server.ListenAddr, reportSvc, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return grpcServer.Run(groupCtx)
	})
	if cfg.Server.MetricsAddr != "" {
		group.Go(func() error {
			logger.WithField("addr", cfg.Server.MetricsAddr).Info("metrics endpoint listening")
			return metrics.Serve(groupCtx, cfg.Server.MetricsAddr, reg)
		})
	}

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		src.Close()
		os.Exit(1)
	}
}
