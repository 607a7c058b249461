package standings

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nilsimda/leaderboard/models"
	"github.com/nilsimda/leaderboard/ranking"
)

type Source interface {
	FetchRound(ctx context.Context, round models.RoundID) (models.Dataset, error)
}

type Visibility interface {
	Visible(ctx context.Context, round models.RoundID) bool
}

// Service fetches, ranks and lays out standings. Nothing is cached; every call
// refetches the rounds it needs.
type Service struct {
	source     Source
	visibility Visibility
	logger     *slog.Logger
}

func NewService(source Source, visibility Visibility, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:     source,
		visibility: visibility,
		logger:     logger.With("component", "standings"),
	}
}

// Tab is one entry of the round navigation.
type Tab struct {
	Round   models.RoundID
	Title   string
	Visible bool
}

// Tabs reports every round in display order and the first visible one.
// first is empty when every round is hidden.
func (s *Service) Tabs(ctx context.Context) (tabs []Tab, first models.RoundID) {
	for _, round := range models.Rounds {
		visible := s.visibility.Visible(ctx, round)
		tabs = append(tabs, Tab{Round: round, Title: round.Title(), Visible: visible})
		if visible && first == "" {
			first = round
		}
	}
	return tabs, first
}

// Standings ranks round and renders it with its column schema.
func (s *Service) Standings(ctx context.Context, round models.RoundID) (models.Table, error) {
	if _, err := models.ParseRound(string(round)); err != nil {
		return models.Table{}, err
	}

	if !s.visibility.Visible(ctx, round) {
		return models.Table{
			Round:   round,
			Title:   round.Title(),
			Headers: headers(round, s.visibleScored(ctx)),
			Rows:    [][]string{},
		}, nil
	}

	needed := append([]models.RoundID{round}, round.Dependencies()...)
	datasets := s.fetch(ctx, needed)

	ranked, err := ranking.RankRound(round, datasets)
	if err != nil {
		return models.Table{}, err
	}
	return buildTable(round, ranked, s.visibleScored(ctx)), nil
}

// Previews ranks every round from a single batch of fetches and keeps the top n
// rows of each, ignoring visibility.
func (s *Service) Previews(ctx context.Context, n int) map[models.RoundID]models.Table {
	datasets := s.fetch(ctx, models.Rounds)

	previews := make(map[models.RoundID]models.Table, len(models.Rounds))
	for _, round := range models.Rounds {
		ranked, err := ranking.RankRound(round, datasets)
		if err != nil {
			continue
		}
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		previews[round] = buildTable(round, ranked, models.ScoredRounds)
	}
	return previews
}

// fetch loads rounds concurrently. A failing round is logged and left empty so
// the others still rank.
func (s *Service) fetch(ctx context.Context, rounds []models.RoundID) models.Datasets {
	id := CycleID(ctx)
	if id == "" {
		ctx, id = NewCycle(ctx)
	}
	logger := s.logger.With("cycle", id)

	var mu sync.Mutex
	datasets := make(models.Datasets, len(rounds))

	g, gctx := errgroup.WithContext(ctx)
	for _, round := range rounds {
		round := round
		g.Go(func() error {
			rows, err := s.source.FetchRound(gctx, round)
			if err != nil {
				logger.Warn("round fetch failed, treating as empty", "round", round, "error", err)
				rows = models.Dataset{}
			}
			mu.Lock()
			datasets[round] = rows
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, rows := range datasets {
		total += len(rows)
	}
	logger.Debug("fetched rounds", "rounds", len(rounds), "rows", total)
	return datasets
}

func (s *Service) visibleScored(ctx context.Context) []models.RoundID {
	var visible []models.RoundID
	for _, r := range models.ScoredRounds {
		if s.visibility.Visible(ctx, r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// buildTable applies the round's column schema. overallRounds selects which
// per-round columns the overall table shows.
func buildTable(round models.RoundID, ranked []models.Ranked, overallRounds []models.RoundID) models.Table {
	table := models.Table{
		Round:     round,
		Title:     round.Title(),
		Headers:   headers(round, overallRounds),
		Rows:      make([][]string, 0, len(ranked)),
		Available: len(ranked) > 0,
	}
	for _, r := range ranked {
		table.Rows = append(table.Rows, cells(round, r, overallRounds))
	}
	return table
}

func headers(round models.RoundID, overallRounds []models.RoundID) []string {
	h := []string{"Rank", "Team Name"}
	switch round {
	case models.Round1:
		h = append(h, "Status", "Time", "Moves", "Accuracy", "Points")
	case models.Round2:
		h = append(h, "R1", "R2", "R3", "R4", "R5", "Score")
	case models.Round3:
		h = append(h, "B1", "B2", "B3", "B4", "B5", "Score")
	case models.Round4:
		h = append(h, "Score")
	case models.Overall:
		for _, r := range overallRounds {
			h = append(h, r.Title())
		}
		h = append(h, "Total Score")
	}
	return h
}

func cells(round models.RoundID, r models.Ranked, overallRounds []models.RoundID) []string {
	row := r.Row
	out := []string{strconv.Itoa(r.Rank), row.Name()}
	switch round {
	case models.Round1:
		out = append(out,
			ranking.FormatStatus(row.Field(models.R1Status)),
			ranking.FormatTime(row.Field(models.R1Time)),
			ranking.FormatMoves(row.Field(models.R1Moves)),
			ranking.FormatAccuracy(row.Field(models.R1Accuracy))+"%",
			ranking.FormatScore(row.Field(models.R1Points)),
		)
	case models.Round2:
		out = append(out, raceCells(row)...)
		out = append(out, ranking.FormatScore(row.Field(models.R2Score)))
	case models.Round3:
		out = append(out, raceCells(row)...)
		out = append(out, ranking.FormatScore(row.Field(models.R3Score)))
	case models.Round4:
		out = append(out, ranking.FormatScore(row.Field(models.R4Score)))
	case models.Overall:
		for _, sr := range overallRounds {
			// overall columns 1..4 follow round order
			out = append(out, ranking.FormatScore(row.Field(slices.Index(models.ScoredRounds, sr)+1)))
		}
		out = append(out, ranking.FormatScore(row.Field(models.OverallTotal)))
	}
	return out
}

// raceCells are the five per-race columns shown as entered.
func raceCells(row models.TeamRow) []string {
	out := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		v := strings.TrimSpace(row.Field(i))
		if v == "" {
			v = "-"
		}
		out = append(out, v)
	}
	return out
}
