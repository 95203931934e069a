package models

import "time"

// Player is a registered competitor. Players are global and join tournaments
// through participations.
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
