package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables are created on startup when missing. Matches keep their
// participants canonically ordered: player1_id is the higher id and
// player2_id the lower one, NULL for a bye.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tournaments (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS participations (
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT participations_pkey PRIMARY KEY (tournament_id, player_id)
);

CREATE TABLE IF NOT EXISTS matches (
    id SERIAL PRIMARY KEY,
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    player1_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    player2_id INTEGER REFERENCES players(id) ON DELETE CASCADE,
    winner_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT matches_no_rematch UNIQUE (tournament_id, player1_id, player2_id),
    CONSTRAINT matches_canonical_order CHECK (player2_id IS NULL OR player1_id > player2_id),
    CONSTRAINT matches_winner_participates CHECK (winner_id = player1_id OR winner_id = player2_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS matches_single_bye ON matches (tournament_id, player1_id) WHERE player2_id IS NULL;
CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches (tournament_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tournaments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS participations (
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (tournament_id, player_id)
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    player1_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    player2_id INTEGER REFERENCES players(id) ON DELETE CASCADE,
    winner_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT matches_no_rematch UNIQUE (tournament_id, player1_id, player2_id),
    CONSTRAINT matches_canonical_order CHECK (player2_id IS NULL OR player1_id > player2_id),
    CONSTRAINT matches_winner_participates CHECK (winner_id = player1_id OR winner_id = player2_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS matches_single_bye ON matches (tournament_id, player1_id) WHERE player2_id IS NULL;
CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches (tournament_id);
`

// Migrate creates the tables the repositories rely on.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	schema := postgresSchema
	if driver == DriverSQLite {
		schema = sqliteSchema
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
