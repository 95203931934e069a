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
	ErrMatchRematch            = errors.New("players have already met in this tournament")
	ErrMatchByeTaken           = errors.New("player has already received a bye in this tournament")
	ErrMatchParticipantInvalid = errors.New("match participant or winner is invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	HaveAlreadyPlayed(ctx context.Context, tournamentID, playerA, playerB int) (bool, error)
	HadBye(ctx context.Context, tournamentID, playerID int) (bool, error)
	DeleteByTournament(ctx context.Context, tournamentID int) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	CountByes(ctx context.Context) (int, error)
}

type sqlMatchRepository struct {
	sqlRepository
}

func NewMatchRepository(db *sql.DB, dialect Dialect) MatchRepository {
	return &sqlMatchRepository{sqlRepository{db: db, dialect: dialect}}
}

// Create stores the match with its participants in canonical order. A match
// without Player2ID is a bye and must be won by Player1ID.
func (r *sqlMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	if m.Player2ID != nil {
		hi, lo := models.CanonicalPair(m.Player1ID, *m.Player2ID)
		m.Player1ID, m.Player2ID = hi, &lo
	}
	m.CreatedAt = time.Now().UTC()

	query := r.rebind(`
		INSERT INTO matches (tournament_id, player1_id, player2_id, winner_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID, m.Player1ID, m.Player2ID, m.WinnerID, m.CreatedAt,
	).Scan(&m.ID)
	return r.handleMatchError(err)
}

func (r *sqlMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := r.rebind(`
		SELECT id, tournament_id, player1_id, player2_id, winner_id, created_at
		FROM matches
		WHERE tournament_id = ?
		ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m       models.Match
			player2 sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Player1ID, &player2, &m.WinnerID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if player2.Valid {
			id := int(player2.Int64)
			m.Player2ID = &id
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *sqlMatchRepository) HaveAlreadyPlayed(ctx context.Context, tournamentID, playerA, playerB int) (bool, error) {
	hi, lo := models.CanonicalPair(playerA, playerB)
	query := r.rebind(`
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE tournament_id = ? AND player1_id = ? AND player2_id = ?
		)`)

	var played bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, hi, lo).Scan(&played); err != nil {
		return false, fmt.Errorf("failed to check match history: %w", err)
	}
	return played, nil
}

func (r *sqlMatchRepository) HadBye(ctx context.Context, tournamentID, playerID int) (bool, error) {
	query := r.rebind(`
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE tournament_id = ? AND player1_id = ? AND player2_id IS NULL
		)`)

	var hadBye bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).Scan(&hadBye); err != nil {
		return false, fmt.Errorf("failed to check bye history: %w", err)
	}
	return hadBye, nil
}

func (r *sqlMatchRepository) DeleteByTournament(ctx context.Context, tournamentID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM matches WHERE tournament_id = ?`), tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return result.RowsAffected()
}

func (r *sqlMatchRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}
	return result.RowsAffected()
}

func (r *sqlMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *sqlMatchRepository) CountByes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE player2_id IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count byes: %w", err)
	}
	return count, nil
}

func (r *sqlMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	switch kind, detail := constraintViolation(err); kind {
	case constraintUnique:
		// SQLite reports the columns of the violated index instead of its name.
		if detail == "matches_no_rematch" || strings.Contains(detail, "matches.player2_id") {
			return ErrMatchRematch
		}
		if detail == "matches_single_bye" || strings.Contains(detail, "matches.player1_id") {
			return ErrMatchByeTaken
		}
	case constraintForeignKey, constraintCheck:
		return ErrMatchParticipantInvalid
	}
	return fmt.Errorf("failed to insert match: %w", err)
}
