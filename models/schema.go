package models

// Field positions per round sheet.
const (
	// round1: [team, status, time, moves, accuracy, points]
	R1Status   = 1
	R1Time     = 2
	R1Moves    = 3
	R1Accuracy = 4
	R1Points   = 5

	// round2: [team, R1..R5, score]
	R2Score = 6

	// round3: [team, B1..B5, score]
	R3Score = 6

	// round4: [team, score]; the score cell holds "Eliminated" for knocked out teams
	R4Score = 1

	// overall: [team, round1, round2, round3, round4, total]
	OverallTotal = 5
)
