package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrParticipationConflict = errors.New("player is already registered for this tournament")
	ErrParticipationInvalid  = errors.New("participation references an unknown player or tournament")
)

type ParticipationRepository interface {
	Add(ctx context.Context, p *models.Participation) error
	Exists(ctx context.Context, tournamentID, playerID int) (bool, error)
	ListPlayers(ctx context.Context, tournamentID int) ([]models.Player, error)
}

type sqlParticipationRepository struct {
	sqlRepository
}

func NewParticipationRepository(db *sql.DB, dialect Dialect) ParticipationRepository {
	return &sqlParticipationRepository{sqlRepository{db: db, dialect: dialect}}
}

func (r *sqlParticipationRepository) Add(ctx context.Context, p *models.Participation) error {
	query := r.rebind(`INSERT INTO participations (tournament_id, player_id, created_at) VALUES (?, ?, ?)`)

	p.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, p.TournamentID, p.PlayerID, p.CreatedAt)
	return r.handleParticipationError(err)
}

func (r *sqlParticipationRepository) Exists(ctx context.Context, tournamentID, playerID int) (bool, error) {
	query := r.rebind(`SELECT EXISTS (SELECT 1 FROM participations WHERE tournament_id = ? AND player_id = ?)`)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	return exists, nil
}

func (r *sqlParticipationRepository) ListPlayers(ctx context.Context, tournamentID int) ([]models.Player, error) {
	query := r.rebind(`
		SELECT p.id, p.name, p.created_at
		FROM participations tp
		JOIN players p ON p.id = tp.player_id
		WHERE tp.tournament_id = ?
		ORDER BY p.id`)

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqlParticipationRepository) handleParticipationError(err error) error {
	if err == nil {
		return nil
	}
	switch kind, detail := constraintViolation(err); kind {
	case constraintUnique:
		if detail == "participations_pkey" || strings.Contains(detail, "participations.") {
			return ErrParticipationConflict
		}
	case constraintForeignKey:
		return ErrParticipationInvalid
	}
	return fmt.Errorf("failed to add participation: %w", err)
}
