package models

import "time"

// Pairing is one pairing of the next round. Player2ID and Player2Name are nil
// for a bye.
type Pairing struct {
	Player1ID   int     `json:"player1_id"`
	Player1Name string  `json:"player1_name"`
	Player2ID   *int    `json:"player2_id"`
	Player2Name *string `json:"player2_name"`
}

// IsBye reports whether the pairing grants a win without an opponent.
func (p Pairing) IsBye() bool {
	return p.Player2ID == nil
}

// Round is the published result of one pairing computation.
type Round struct {
	TournamentID int       `json:"tournament_id"`
	Number       int       `json:"round"`
	Pairings     []Pairing `json:"pairings"`
	Bye          *Pairing  `json:"bye,omitempty"`
	ByeRecorded  bool      `json:"bye_recorded"`
	GeneratedAt  time.Time `json:"generated_at"`
	ArchiveURL   *string   `json:"archive_url,omitempty"`
}

// RoundStatus describes whether the current round is complete.
type RoundStatus struct {
	TournamentID int  `json:"tournament_id"`
	Complete     bool `json:"complete"`
	CurrentRound int  `json:"current_round"`
	Players      int  `json:"players"`
}
