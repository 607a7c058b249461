package ranking

import (
	"math"
	"strconv"
	"strings"

	"github.com/nilsimda/leaderboard/models"
)

// NoTime sorts incomplete or unreadable times after every real time.
const NoTime = 9999999

func absent(s string) bool {
	return strings.TrimSpace(s) == ""
}

func FormatTime(s string) string {
	if absent(s) {
		return "-"
	}
	return strings.TrimSpace(s)
}

// TimeToSeconds converts MM:SS for ordering only.
func TimeToSeconds(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return NoTime
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || minutes < 0 {
		return NoTime
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds < 0 {
		return NoTime
	}
	return minutes*60 + seconds
}

func FormatScore(s string) string {
	score := models.ParseScore(s)
	switch score.Kind {
	case models.ScoreEliminated:
		return "Eliminated"
	case models.ScoreNumeric:
		return roundText(score.Value())
	}
	return "0"
}

func FormatMoves(s string) string {
	return formatCount(s)
}

func FormatAccuracy(s string) string {
	return formatCount(s)
}

func FormatStatus(s string) string {
	if absent(s) {
		return "-"
	}
	return strings.TrimSpace(s)
}

func formatCount(s string) string {
	v, ok := models.ParseNumber(s)
	if !ok {
		return "0"
	}
	return roundText(v)
}

// roundText rounds half up, the way spreadsheet viewers display points.
// Values beyond the int64 range are printed in full rather than converted.
func roundText(v float64) string {
	return strconv.FormatFloat(math.Floor(v+0.5), 'f', 0, 64)
}

// number is the lenient numeric reading used by comparators; absent or junk is 0.
func number(s string) float64 {
	v, _ := models.ParseNumber(s)
	return v
}
