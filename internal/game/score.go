package game

import (
	"fmt"
	"strings"

	"whenwasit/internal/leaderboard"
)

// MaxScore is the per-event score for an exact guess.
const MaxScore = 100

// GuessWindow bounds guesses to ±200 years around the actual year.
const GuessWindow = 200

// Score rates a year guess: 100 for exact, minus one per year off, floored
// at zero. Years are signed (negative = BC), so guessing 10 AD for 44 BC is
// 54 years off.
func Score(guessedYear, actualYear int) int {
	diff := guessedYear - actualYear
	if diff < 0 {
		diff = -diff
	}
	if diff >= MaxScore {
		return 0
	}
	return MaxScore - diff
}

// YearRange returns the inclusive bounds a guess must fall within.
func YearRange(actualYear int) (min, max int) {
	return actualYear - GuessWindow, actualYear + GuessWindow
}

// ShareText formats the share string for a finished round, e.g.
//
//	WhenWasIt 300/500
//	100 🗡️, 80 ⛵, 60 🚂, 40 🌕, 20 🧱
//	https://example.com
func ShareText(results []leaderboard.GameResult, siteURL string) string {
	total := 0
	parts := make([]string, len(results))
	for i, r := range results {
		total += r.Score
		parts[i] = fmt.Sprintf("%d %s", r.Score, r.Emoji)
	}
	return fmt.Sprintf("WhenWasIt %d/%d\n%s\n%s",
		total, len(results)*MaxScore, strings.Join(parts, ", "), siteURL)
}
