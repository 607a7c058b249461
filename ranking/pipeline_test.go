package ranking

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilsimda/leaderboard/models"
)

func names(ranked []models.Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Row.Name()
	}
	return out
}

func rankRound(t *testing.T, round models.RoundID, datasets models.Datasets) []models.Ranked {
	t.Helper()
	ranked, err := RankRound(round, datasets)
	require.NoError(t, err)
	return ranked
}

func TestRankRound_Scenarios(t *testing.T) {
	cases := []struct {
		name     string
		round    models.RoundID
		datasets models.Datasets
		want     []string
	}{
		{
			name:  "round1 tied points faster time wins",
			round: models.Round1,
			datasets: models.Datasets{models.Round1: {
				{"Alpha", "Completed", "02:30", "10", "90%", "100"},
				{"Beta", "Completed", "02:10", "12", "85%", "100"},
			}},
			want: []string{"Beta", "Alpha"},
		},
		{
			name:  "round1 timeout tied accuracy fewer moves wins",
			round: models.Round1,
			datasets: models.Datasets{models.Round1: {
				{"Gamma", "Timeout", "-", "5", "60%", "0"},
				{"Delta", "Timeout", "-", "3", "60%", "0"},
			}},
			want: []string{"Delta", "Gamma"},
		},
		{
			name:  "round4 eliminated last",
			round: models.Round4,
			datasets: models.Datasets{models.Round4: {
				{"Foxtrot", "Eliminated"},
				{"Echo", "50"},
			}},
			want: []string{"Echo", "Foxtrot"},
		},
		{
			name:     "empty round",
			round:    models.Round3,
			datasets: models.Datasets{},
			want:     []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := rankRound(t, tc.round, tc.datasets)
			assert.Equal(t, tc.want, names(ranked))
			for i, r := range ranked {
				assert.Equal(t, i+1, r.Rank)
			}
		})
	}
}

func TestRankRound_Round2UsesRound1ByName(t *testing.T) {
	datasets := models.Datasets{
		// Fields 1..5 of a round 2 row are per-race points, not round 1 results.
		models.Round2: {
			{"Alpha", "Completed", "00:01", "1", "1", "1", "20"},
			{"Beta", "-", "-", "-", "-", "-", "20"},
			{"Gamma", "-", "-", "-", "-", "-", "30"},
		},
		models.Round1: {
			{"Beta", "Completed", "01:00", "3", "100%", "50"},
			{"Alpha", "Timeout", "-", "3", "100%", "50"},
		},
	}

	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, names(rankRound(t, models.Round2, datasets)))
}

func TestRankRound_Round3(t *testing.T) {
	datasets := models.Datasets{
		models.Round3: {
			{"X", "-", "-", "-", "-", "-", "Eliminated"},
			{"Y", "1", "1", "1", "1", "1", "5"},
			{"Z", "-", "-", "-", "-", "-", "eliminated"},
			{"W", "0", "0", "0", "0", "0", "0"},
			{"V", "1", "1", "1", "1", "1", "5"},
		},
		models.Round2: {
			{"X", "-", "-", "-", "-", "-", "1"},
			{"Z", "-", "-", "-", "-", "-", "9"},
			{"Y", "-", "-", "-", "-", "-", "4"},
			{"V", "-", "-", "-", "-", "-", "4"},
		},
		models.Round1: {
			{"V", "Completed", "01:00", "1"},
			{"Y", "Completed", "02:00", "1"},
		},
	}

	// Y and V tie on round 3 and round 2 score; V was faster in round 1.
	// Eliminated teams follow, ordered by their round 2 score.
	assert.Equal(t, []string{"V", "Y", "W", "Z", "X"}, names(rankRound(t, models.Round3, datasets)))
}

func TestRankRound_Round4FallsBackThroughEarlierRounds(t *testing.T) {
	datasets := models.Datasets{
		models.Round4: {
			{"A", "10"},
			{"B", "10"},
			{"C", "10"},
			{"D", "Eliminated"},
			{"E", "10"},
		},
		models.Round3: {
			{"A", "-", "-", "-", "-", "-", "3"},
			{"B", "-", "-", "-", "-", "-", "3"},
			{"C", "-", "-", "-", "-", "-", "7"},
		},
		models.Round2: {
			{"A", "-", "-", "-", "-", "-", "1"},
			{"B", "-", "-", "-", "-", "-", "2"},
		},
	}

	// E has no earlier rows, so every fallback stage is skipped for it and it
	// keeps its input position relative to the teams it cannot be separated from.
	assert.Equal(t, []string{"C", "B", "A", "E", "D"}, names(rankRound(t, models.Round4, datasets)))
}

func TestRankRound_OverallChain(t *testing.T) {
	datasets := models.Datasets{
		models.Overall: {
			{"A", "10", "10", "10", "10", "40"},
			{"B", "10", "10", "10", "10", "40"},
			{"C", "50", "0", "0", "0", "50"},
		},
		models.Round4: {
			{"A", "Eliminated"},
			{"B", "3"},
		},
	}

	assert.Equal(t, []string{"C", "B", "A"}, names(rankRound(t, models.Overall, datasets)))
}

func TestRankRound_UnknownRound(t *testing.T) {
	_, err := RankRound(models.RoundID("round9"), models.Datasets{})
	assert.ErrorIs(t, err, models.ErrUnknownRound)
}

func TestRank_StableAndIdempotent(t *testing.T) {
	rows := models.Dataset{
		{"A", "-"},
		{"B", "-"},
		{"C", "-"},
	}
	original := append(models.Dataset(nil), rows...)

	first := Rank(rows, CompareRound1)
	second := Rank(rows, CompareRound1)

	assert.Equal(t, []string{"A", "B", "C"}, names(first))
	assert.Equal(t, first, second)
	assert.Equal(t, original, rows)
}

func TestRank_EliminationFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 50; iter++ {
		var r4 models.Dataset
		for i := 0; i < 12; i++ {
			score := fmt.Sprint(rng.Intn(100))
			if rng.Intn(3) == 0 {
				score = "Eliminated"
			}
			r4 = append(r4, models.TeamRow{fmt.Sprintf("T%d", i), score})
		}

		ranked := rankRound(t, models.Round4, models.Datasets{models.Round4: r4})
		seenEliminated := false
		for _, r := range ranked {
			if models.IsEliminated(r.Row.Field(models.R4Score)) {
				seenEliminated = true
				continue
			}
			require.False(t, seenEliminated, "active team %s ranked after an eliminated team", r.Row.Name())
		}
	}
}

func TestRank_EliminationFloorRound3(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	for iter := 0; iter < 50; iter++ {
		var r1, r3 models.Dataset
		for i := 0; i < 12; i++ {
			name := fmt.Sprintf("T%d", i)
			score := fmt.Sprint(rng.Intn(5))
			if rng.Intn(3) == 0 {
				score = "Eliminated"
			}
			r1 = append(r1, models.TeamRow{name, "Completed", fmt.Sprintf("0%d:00", rng.Intn(10)), fmt.Sprint(rng.Intn(20))})
			r3 = append(r3, models.TeamRow{name, "-", "-", "-", "-", "-", score})
		}

		ranked := rankRound(t, models.Round3, models.Datasets{models.Round1: r1, models.Round3: r3})
		seenEliminated := false
		for _, r := range ranked {
			if models.IsEliminated(r.Row.Field(models.R3Score)) {
				seenEliminated = true
				continue
			}
			require.False(t, seenEliminated, "active team %s ranked after an eliminated team", r.Row.Name())
		}
	}
}

func TestRank_MissingFieldsUseDefaults(t *testing.T) {
	rows := models.Dataset{
		{"Short"},
		{"Full", "Completed", "01:00", "4", "100%", "10"},
	}
	ranked := rankRound(t, models.Round1, models.Datasets{models.Round1: rows})
	assert.Equal(t, []string{"Full", "Short"}, names(ranked))
}
