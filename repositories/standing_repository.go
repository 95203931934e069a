package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// StandingRepository derives standings from participations and matches.
// Nothing is stored; every call aggregates the current match rows.
type StandingRepository interface {
	GetStandings(ctx context.Context, tournamentID int) ([]models.StandingsRow, error)
}

type sqlStandingRepository struct {
	sqlRepository
}

func NewStandingRepository(db *sql.DB, dialect Dialect) StandingRepository {
	return &sqlStandingRepository{sqlRepository{db: db, dialect: dialect}}
}

// GetStandings returns one row per participant ordered by wins descending
// and player id ascending. Byes count as wins and as matches played.
func (r *sqlStandingRepository) GetStandings(ctx context.Context, tournamentID int) ([]models.StandingsRow, error) {
	query := r.rebind(`
		SELECT
			p.id,
			p.name,
			COALESCE(SUM(CASE WHEN m.winner_id = p.id THEN 1 ELSE 0 END), 0) AS wins,
			COUNT(m.id) AS matches
		FROM participations tp
		JOIN players p ON p.id = tp.player_id
		LEFT JOIN matches m
			ON m.tournament_id = tp.tournament_id
			AND (m.player1_id = p.id OR m.player2_id = p.id)
		WHERE tp.tournament_id = ?
		GROUP BY p.id, p.name
		ORDER BY wins DESC, p.id ASC`)

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.StandingsRow, 0)
	for rows.Next() {
		var row models.StandingsRow
		if err := rows.Scan(&row.PlayerID, &row.Name, &row.Wins, &row.Matches); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standings rows iteration: %w", err)
	}
	return standings, nil
}
