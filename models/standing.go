package models

// StandingsRow is the derived per-player summary within one tournament.
// Wins include byes; Matches counts every match the player appears in.
type StandingsRow struct {
	PlayerID int    `json:"player_id" db:"player_id"`
	Name     string `json:"name" db:"name"`
	Wins     int    `json:"wins" db:"wins"`
	Matches  int    `json:"matches" db:"matches"`
}
