package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nilsimda/leaderboard/config"
	"github.com/nilsimda/leaderboard/db"
	"github.com/nilsimda/leaderboard/models"
	"github.com/nilsimda/leaderboard/sheet"
	"github.com/nilsimda/leaderboard/standings"
)

// allVisible is used when no visibility database is given.
type allVisible struct{}

func (allVisible) Visible(context.Context, models.RoundID) bool { return true }

func export(ctx context.Context, svc *standings.Service, target string) (any, error) {
	if target == "all" {
		tables := make([]models.Table, 0, len(models.Rounds))
		for _, round := range models.Rounds {
			table, err := svc.Standings(ctx, round)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
		return tables, nil
	}

	round, err := models.ParseRound(target)
	if err != nil {
		return nil, fmt.Errorf("round %q: %w", target, err)
	}
	return svc.Standings(ctx, round)
}

func main() {
	round := flag.String("round", "all", "Round to export (round1..round4, overall, or all)")
	dbPath := flag.String("db", "", "Visibility database; every round is exported as visible when empty")
	timeout := flag.Duration("timeout", time.Minute, "Overall time limit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	var visibility standings.Visibility = allVisible{}
	if *dbPath != "" {
		store, err := db.NewVisibilityDB(*dbPath, logger)
		if err != nil {
			logger.Error("failed to open visibility db", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		visibility = store
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, cycle := standings.NewCycle(ctx)

	client := sheet.NewClient(cfg.SheetBaseURL, cfg.GIDs, cfg.FetchTimeout, logger)
	svc := standings.NewService(client, visibility, logger)

	start := time.Now()
	out, err := export(ctx, svc, *round)
	if err != nil {
		logger.Error("export failed", "round", *round, "cycle", cycle, "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("failed to encode standings", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
	logger.Info("export finished", "round", *round, "cycle", cycle, "took", time.Since(start))
}
