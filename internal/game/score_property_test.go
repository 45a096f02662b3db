package game

import (
	"testing"

	"pgregory.net/rapid"
)

// For any pair of years, Score(g,a) == max(0, 100-abs(g-a)), stays within
// [0, 100], and never increases as the guess moves further from the answer.
func TestScoreProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := rapid.IntRange(-5000, 5000).Draw(t, "guessed")
		a := rapid.IntRange(-5000, 5000).Draw(t, "actual")

		diff := g - a
		if diff < 0 {
			diff = -diff
		}
		want := 100 - diff
		if want < 0 {
			want = 0
		}

		got := Score(g, a)
		if got != want {
			t.Fatalf("Score(%d,%d) = %d, want %d", g, a, got, want)
		}
		if got < 0 || got > MaxScore {
			t.Fatalf("Score(%d,%d) = %d out of [0,%d]", g, a, got, MaxScore)
		}

		// One year further off never scores higher.
		further := g + 1
		if g < a {
			further = g - 1
		}
		if Score(further, a) > got {
			t.Fatalf("Score(%d,%d) > Score(%d,%d)", further, a, g, a)
		}
	})
}

// Score is symmetric around the actual year.
func TestScoreSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(-5000, 5000).Draw(t, "actual")
		d := rapid.IntRange(0, 300).Draw(t, "delta")
		if Score(a+d, a) != Score(a-d, a) {
			t.Fatalf("Score not symmetric at actual=%d delta=%d", a, d)
		}
	})
}
