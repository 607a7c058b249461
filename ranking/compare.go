package ranking

import (
	"cmp"
	"strings"

	"github.com/nilsimda/leaderboard/models"
)

// Comparator orders two rows of the same round. Negative puts a first.
type Comparator func(a, b models.TeamRow) int

// Compose returns the first non-zero result of cmps, in order.
func Compose(cmps ...Comparator) Comparator {
	return func(a, b models.TeamRow) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

// Joined compares the rows the two teams have in another round. When either team
// is missing from lookup the stage has no information and reports 0.
func Joined(lookup models.Lookup, c Comparator) Comparator {
	return func(a, b models.TeamRow) int {
		ja, ok := lookup[a.Name()]
		if !ok {
			return 0
		}
		jb, ok := lookup[b.Name()]
		if !ok {
			return 0
		}
		return c(ja, jb)
	}
}

const (
	classComplete = iota
	classTimeout
	classOther
)

func statusClass(status string) int {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "complete"):
		return classComplete
	case strings.Contains(s, "timeout"):
		return classTimeout
	}
	return classOther
}

// CompareRound1 puts completed runs first (fastest, then fewest moves), then
// timed-out runs (most accurate, then fewest moves).
func CompareRound1(a, b models.TeamRow) int {
	ca, cb := statusClass(a.Field(models.R1Status)), statusClass(b.Field(models.R1Status))
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch ca {
	case classComplete:
		if c := cmp.Compare(TimeToSeconds(a.Field(models.R1Time)), TimeToSeconds(b.Field(models.R1Time))); c != 0 {
			return c
		}
		return cmp.Compare(number(a.Field(models.R1Moves)), number(b.Field(models.R1Moves)))
	case classTimeout:
		if c := cmp.Compare(number(b.Field(models.R1Accuracy)), number(a.Field(models.R1Accuracy))); c != 0 {
			return c
		}
		return cmp.Compare(number(a.Field(models.R1Moves)), number(b.Field(models.R1Moves)))
	}
	return 0
}

func CompareRound2(a, b models.TeamRow) int {
	return scoreDesc(a.Field(models.R2Score), b.Field(models.R2Score))
}

// CompareRound3 sinks eliminated teams, then orders by score.
func CompareRound3(a, b models.TeamRow) int {
	return eliminatedLast(a.Field(models.R3Score), b.Field(models.R3Score))
}

func CompareRound4(a, b models.TeamRow) int {
	return eliminatedLast(a.Field(models.R4Score), b.Field(models.R4Score))
}

func CompareOverall(a, b models.TeamRow) int {
	return scoreDesc(a.Field(models.OverallTotal), b.Field(models.OverallTotal))
}

func scoreDesc(a, b string) int {
	return cmp.Compare(models.ParseScore(b).Value(), models.ParseScore(a).Value())
}

func eliminatedLast(a, b string) int {
	sa, sb := models.ParseScore(a), models.ParseScore(b)
	if sa.Eliminated() != sb.Eliminated() {
		if sa.Eliminated() {
			return 1
		}
		return -1
	}
	return cmp.Compare(sb.Value(), sa.Value())
}
