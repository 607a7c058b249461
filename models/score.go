package models

import (
	"regexp"
	"strconv"
	"strings"
)

type ScoreKind int

const (
	ScoreUnknown ScoreKind = iota
	ScoreNumeric
	ScoreEliminated
)

// Score is a parsed score cell: a number, the eliminated sentinel, or nothing usable.
type Score struct {
	Kind  ScoreKind
	value float64
}

func Numeric(v float64) Score { return Score{Kind: ScoreNumeric, value: v} }

var (
	Eliminated = Score{Kind: ScoreEliminated}
	Unknown    = Score{Kind: ScoreUnknown}
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the numeric prefix of s, so "90%" is 90 and "12 pts" is 12.
func ParseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func IsEliminated(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "eliminated")
}

func ParseScore(s string) Score {
	if IsEliminated(s) {
		return Eliminated
	}
	if v, ok := ParseNumber(s); ok {
		return Numeric(v)
	}
	return Unknown
}

// Value is the numeric score, 0 for anything that is not a number.
func (s Score) Value() float64 {
	if s.Kind != ScoreNumeric {
		return 0
	}
	return s.value
}

func (s Score) Eliminated() bool {
	return s.Kind == ScoreEliminated
}
