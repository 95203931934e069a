package models

import "time"

// Match is a reported result. Participants are stored canonically: Player1ID
// is the higher id, Player2ID the lower one. A bye has Player2ID == nil and
// Player1ID == WinnerID.
type Match struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    *int      `json:"player2_id,omitempty" db:"player2_id"`
	WinnerID     int       `json:"winner_id" db:"winner_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsBye reports whether the match was awarded without an opponent.
func (m Match) IsBye() bool {
	return m.Player2ID == nil
}

// LoserID returns the losing participant, or nil for a bye.
func (m Match) LoserID() *int {
	if m.Player2ID == nil {
		return nil
	}
	if m.WinnerID == m.Player1ID {
		loser := *m.Player2ID
		return &loser
	}
	loser := m.Player1ID
	return &loser
}

// CanonicalPair orders two player ids the way matches are stored:
// higher id first.
func CanonicalPair(a, b int) (int, int) {
	if a >= b {
		return a, b
	}
	return b, a
}
