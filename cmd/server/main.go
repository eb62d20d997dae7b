// Package main runs the article JSON API in front of the Feishu case table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"antifraud/internal/api"
	"antifraud/internal/app"
	"antifraud/internal/config"
	"antifraud/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	warm := flag.Bool("warm", false, "Fetch the article snapshot before accepting requests")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Info("Starting article API", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service, err := app.New(ctx, cfg, log, reg)
	if err != nil {
		log.Error("Failed to initialise service", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	if *warm {
		res := service.Articles.Load(ctx)
		log.Info("Snapshot warmed", "articles", len(res.Articles), "status", res.Status)
	}

	server := api.NewServer(service.Articles, api.Options{
		Logger:   log,
		Metrics:  service.Metrics,
		Gatherer: reg,
		Presence: cfg.Presence(),
	})

	if err := server.Run(ctx, cfg.Server.Addr); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
