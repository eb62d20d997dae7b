// Package main fetches the case table once and prints the mapped articles.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"antifraud/internal/app"
	"antifraud/internal/config"
	"antifraud/internal/formatter"
	"antifraud/internal/logger"
	"antifraud/internal/models"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	output := flag.String("output", "", "Write the articles as JSON to this file instead of printing a table")
	recordID := flag.String("record", "", "Fetch a single record by id")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall deadline for the sync")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	service, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		log.Error("Failed to initialise service", "error", err)
		os.Exit(1)
	}
	defer service.Close()

	startTime := time.Now()

	var articles []models.Article

	if *recordID != "" {
		articles, err = fetchOne(ctx, service, *recordID)
	} else {
		articles, err = fetchAll(ctx, service)
	}

	if err != nil {
		log.Error("Sync failed", "error", err)
		os.Exit(1)
	}

	log.Info("Sync complete", "articles", len(articles), "duration", time.Since(startTime))

	if *output != "" {
		if err := writeJSON(*output, articles); err != nil {
			log.Error("Failed to write output", "path", *output, "error", err)
			os.Exit(1)
		}

		log.Info("Articles written", "path", *output)

		return
	}

	fmt.Println(formatter.FormatArticleTable(articles))
	fmt.Printf("\nTotal: %d articles in %v\n", len(articles), time.Since(startTime).Round(time.Millisecond))
}

// fetchAll bypasses the cache so failures are reported instead of yielding an empty list.
func fetchAll(ctx context.Context, service *app.App) ([]models.Article, error) {
	records, err := service.Fetcher.GetAllRecords(ctx)
	if err != nil {
		return nil, err
	}

	return service.Processor.Process(records, service.Config.Fields)
}

func fetchOne(ctx context.Context, service *app.App, id string) ([]models.Article, error) {
	record, err := service.Fetcher.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, fmt.Errorf("record %s not found", id)
	}

	return []models.Article{service.Processor.Transformer().FromRecord(*record, service.Config.Fields)}, nil
}

func writeJSON(path string, articles []models.Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal articles: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
