package models

import "time"

// Tournament представляет турнир по швейцарской системе.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Standings []StandingsRow `json:"standings,omitempty" db:"-"`
	Matches   []Match        `json:"matches,omitempty" db:"-"`
}

// Participation links a player to a tournament. A player joins a given
// tournament at most once.
type Participation struct {
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
