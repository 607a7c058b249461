package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nilsimda/leaderboard/models"
)

// VisibilityDB persists which leaderboard tabs are shown to visitors.
type VisibilityDB struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewVisibilityDB(dbPath string, logger *slog.Logger) (*VisibilityDB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	vDB := &VisibilityDB{db: db, logger: logger.With("component", "visibility")}
	if err := vDB.initDatabase(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return vDB, nil
}

func (db *VisibilityDB) Close() error {
	return db.db.Close()
}

func (db *VisibilityDB) initDatabase() error {
	_, err := db.db.Exec(`CREATE TABLE IF NOT EXISTS round_visibility (
		round TEXT PRIMARY KEY,
		visible INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Every round starts out visible.
	for _, round := range models.Rounds {
		_, err := db.db.Exec(
			"INSERT OR IGNORE INTO round_visibility (round, visible) VALUES (?, 1)", string(round))
		if err != nil {
			return fmt.Errorf("failed to seed round %s: %w", round, err)
		}
	}

	return nil
}

// Visible reports whether round is shown. Unset rows and read failures count as visible.
func (db *VisibilityDB) Visible(ctx context.Context, round models.RoundID) bool {
	var visible bool
	err := db.db.QueryRowContext(ctx,
		"SELECT visible FROM round_visibility WHERE round = ?", string(round)).Scan(&visible)
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	if err != nil {
		db.logger.Warn("failed to read visibility, defaulting to visible", "round", round, "error", err)
		return true
	}
	return visible
}

func (db *VisibilityDB) SetVisible(ctx context.Context, round models.RoundID, visible bool) error {
	if _, err := models.ParseRound(string(round)); err != nil {
		return err
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO round_visibility (round, visible, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(round) DO UPDATE SET visible = excluded.visible, updated_at = CURRENT_TIMESTAMP`,
		string(round), visible)
	if err != nil {
		return fmt.Errorf("failed to set visibility for %s: %w", round, err)
	}
	db.logger.Info("visibility changed", "round", round, "visible", visible)
	return nil
}

// Toggle flips the effective visibility of round and returns the new value.
func (db *VisibilityDB) Toggle(ctx context.Context, round models.RoundID) (bool, error) {
	next := !db.Visible(ctx, round)
	if err := db.SetVisible(ctx, round, next); err != nil {
		return false, err
	}
	return next, nil
}

// All returns the effective visibility of every round.
func (db *VisibilityDB) All(ctx context.Context) (map[models.RoundID]bool, error) {
	rows, err := db.db.QueryContext(ctx, "SELECT round, visible FROM round_visibility")
	if err != nil {
		return nil, fmt.Errorf("failed to query visibility: %w", err)
	}
	defer rows.Close()

	states := make(map[models.RoundID]bool, len(models.Rounds))
	for _, round := range models.Rounds {
		states[round] = true
	}
	for rows.Next() {
		var round string
		var visible bool
		if err := rows.Scan(&round, &visible); err != nil {
			return nil, err
		}
		if r, err := models.ParseRound(round); err == nil {
			states[r] = visible
		}
	}
	return states, rows.Err()
}
