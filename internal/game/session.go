// internal/game/session.go
//
// Server-side state machine for one play-through.
// States: instructions → countdown → playing → complete.
//
// The countdown is a fixed 3-2-1 wall-clock window; transitions are computed
// from timestamps passed in by the caller, so a session holds no timers and
// nothing needs tearing down when it is dropped.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"whenwasit/internal/events"
	"whenwasit/internal/leaderboard"
)

// State names a phase of the session.
type State string

const (
	StateInstructions State = "instructions"
	StateCountdown    State = "countdown"
	StatePlaying      State = "playing"
	StateComplete     State = "complete"
)

// countdownDuration covers the 3-2-1 ticks plus the short reveal pause.
const countdownDuration = 3500 * time.Millisecond

var (
	ErrNotStarted    = errors.New("session not started")
	ErrCountingDown  = errors.New("countdown in progress")
	ErrFinished      = errors.New("session already complete")
	ErrOutOfRange    = errors.New("guess outside allowed year range")
	ErrAlreadyActive = errors.New("session already started")
)

// Session is one player's run through the daily round.
type Session struct {
	ID         string
	PlayerName string
	Date       string
	Events     []events.Event

	State            State
	Index            int
	Results          []leaderboard.GameResult
	PotentialCheater bool

	countdownEnds time.Time
	questionStart time.Time
	submitted     bool
}

// NewSession creates an idle session over the day's events.
func NewSession(playerName, date string, evs []events.Event) *Session {
	return &Session{
		ID:         newSessionID(),
		PlayerName: playerName,
		Date:       date,
		Events:     evs,
		State:      StateInstructions,
		Results:    []leaderboard.GameResult{},
	}
}

// Start begins the countdown. Only valid from the instructions state.
func (s *Session) Start(now time.Time) error {
	if s.State != StateInstructions {
		return ErrAlreadyActive
	}
	s.State = StateCountdown
	s.countdownEnds = now.Add(countdownDuration)
	return nil
}

// advance promotes countdown → playing once the countdown window has passed.
// The first question's stopwatch starts when the countdown ended, not when
// the next request happens to arrive.
func (s *Session) advance(now time.Time) {
	if s.State == StateCountdown && !now.Before(s.countdownEnds) {
		s.State = StatePlaying
		s.questionStart = s.countdownEnds
	}
}

// Current returns the event awaiting a guess.
func (s *Session) Current() (events.Event, bool) {
	if s.Index < len(s.Events) {
		return s.Events[s.Index], true
	}
	return events.Event{}, false
}

// Guess scores the current event, records the result, and advances. On the
// last event the session transitions to complete. A guess outside the
// allowed window is rejected without consuming the question.
func (s *Session) Guess(now time.Time, guessedYear int) (leaderboard.GameResult, error) {
	s.advance(now)
	switch s.State {
	case StateInstructions:
		return leaderboard.GameResult{}, ErrNotStarted
	case StateCountdown:
		return leaderboard.GameResult{}, ErrCountingDown
	case StateComplete:
		return leaderboard.GameResult{}, ErrFinished
	}
	ev, ok := s.Current()
	if !ok {
		return leaderboard.GameResult{}, ErrFinished
	}
	min, max := YearRange(ev.Year)
	if guessedYear < min || guessedYear > max {
		return leaderboard.GameResult{}, ErrOutOfRange
	}

	elapsed := int(now.Sub(s.questionStart) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	result := leaderboard.GameResult{
		EventID:     ev.ID,
		GuessedYear: guessedYear,
		ActualYear:  ev.Year,
		Score:       Score(guessedYear, ev.Year),
		Emoji:       ev.Emoji,
		TimeSpent:   elapsed,
	}
	s.Results = append(s.Results, result)

	if s.Index == len(s.Events)-1 {
		s.State = StateComplete
	} else {
		s.Index++
		s.questionStart = now
	}
	return result, nil
}

// FlagBlur records a page-visibility-lost signal. The flag is one-way and
// only set while actually playing; it never blocks submission.
func (s *Session) FlagBlur(now time.Time) {
	s.advance(now)
	if s.State == StatePlaying {
		s.PotentialCheater = true
	}
}

// TotalScore sums the recorded results.
func (s *Session) TotalScore() int {
	total := 0
	for _, r := range s.Results {
		total += r.Score
	}
	return total
}

// Entry builds the leaderboard entry for a completed session, exactly once.
// The second call reports ErrFinished so completion submits a single entry.
func (s *Session) Entry(now time.Time) (leaderboard.Entry, error) {
	if s.State != StateComplete {
		return leaderboard.Entry{}, ErrNotStarted
	}
	if s.submitted {
		return leaderboard.Entry{}, ErrFinished
	}
	s.submitted = true
	return leaderboard.Entry{
		Name:               s.PlayerName,
		TotalScore:         s.TotalScore(),
		Date:               now.UTC(),
		Results:            s.Results,
		IsPotentialCheater: s.PotentialCheater,
	}, nil
}

// newSessionID returns a compact 16-hex-char identifier.
func newSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
