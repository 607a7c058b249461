package ranking

import (
	"slices"

	"github.com/nilsimda/leaderboard/models"
)

// Chain builds the full tie-break chain for round. Earlier rounds are consulted
// through lookups keyed by team name; a nil lookup simply never matches.
func Chain(round models.RoundID, lookups map[models.RoundID]models.Lookup) (Comparator, error) {
	r1 := Joined(lookups[models.Round1], CompareRound1)
	r2 := Joined(lookups[models.Round2], CompareRound2)
	r3 := Joined(lookups[models.Round3], CompareRound3)
	r4 := Joined(lookups[models.Round4], CompareRound4)

	switch round {
	case models.Round1:
		return CompareRound1, nil
	case models.Round2:
		return Compose(CompareRound2, r1), nil
	case models.Round3:
		return Compose(CompareRound3, r2, r1), nil
	case models.Round4:
		return Compose(CompareRound4, r3, r2, r1), nil
	case models.Overall:
		return Compose(CompareOverall, r4, r3, r2, r1), nil
	}
	return nil, models.ErrUnknownRound
}

// Rank orders a copy of rows with a stable sort and numbers them from 1.
// Rows the comparator cannot separate keep their input order.
func Rank(rows models.Dataset, c Comparator) []models.Ranked {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, c)

	ranked := make([]models.Ranked, len(sorted))
	for i, row := range sorted {
		ranked[i] = models.Ranked{Rank: i + 1, Row: row}
	}
	return ranked
}

// RankRound ranks datasets[round] using the other rounds in datasets for tie-breaks.
// Missing datasets are treated as empty.
func RankRound(round models.RoundID, datasets models.Datasets) ([]models.Ranked, error) {
	lookups := make(map[models.RoundID]models.Lookup)
	for _, dep := range round.Dependencies() {
		lookups[dep] = models.NewLookup(datasets[dep])
	}
	c, err := Chain(round, lookups)
	if err != nil {
		return nil, err
	}
	return Rank(datasets[round], c), nil
}
