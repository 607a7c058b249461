package models

import (
	"errors"
	"strings"
)

var ErrUnknownRound = errors.New("unknown round")

// RoundID identifies one leaderboard tab.
type RoundID string

const (
	Round1  RoundID = "round1"
	Round2  RoundID = "round2"
	Round3  RoundID = "round3"
	Round4  RoundID = "round4"
	Overall RoundID = "overall"
)

// Rounds lists every round in display order.
var Rounds = []RoundID{Round1, Round2, Round3, Round4, Overall}

// ScoredRounds are the rounds that feed into the overall standings.
var ScoredRounds = []RoundID{Round1, Round2, Round3, Round4}

func ParseRound(s string) (RoundID, error) {
	r := RoundID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Rounds {
		if r == known {
			return r, nil
		}
	}
	return "", ErrUnknownRound
}

// Title is the human readable tab label.
func (r RoundID) Title() string {
	switch r {
	case Round1:
		return "Round 1"
	case Round2:
		return "Round 2"
	case Round3:
		return "Round 3"
	case Round4:
		return "Round 4"
	case Overall:
		return "Overall"
	}
	return string(r)
}

// Dependencies returns the earlier rounds whose rows are consulted for tie-breaks.
func (r RoundID) Dependencies() []RoundID {
	switch r {
	case Round2:
		return []RoundID{Round1}
	case Round3:
		return []RoundID{Round1, Round2}
	case Round4:
		return []RoundID{Round1, Round2, Round3}
	case Overall:
		return []RoundID{Round1, Round2, Round3, Round4}
	}
	return nil
}

// TeamRow is one spreadsheet row. Field 0 is always the team name.
type TeamRow []string

func (r TeamRow) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

func (r TeamRow) Name() string {
	return r.Field(0)
}

type Dataset []TeamRow

type Datasets map[RoundID]Dataset

// Lookup indexes a dataset by team name. The first row for a name wins.
type Lookup map[string]TeamRow

func NewLookup(rows Dataset) Lookup {
	l := make(Lookup, len(rows))
	for _, row := range rows {
		name := row.Name()
		if _, exists := l[name]; exists {
			continue
		}
		l[name] = row
	}
	return l
}

type Ranked struct {
	Rank int
	Row  TeamRow
}

// Table is what a renderer needs to draw one round.
type Table struct {
	Round     RoundID    `json:"round"`
	Title     string     `json:"title"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	Available bool       `json:"available"`
}
