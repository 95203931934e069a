package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int) error
}

type sqlTournamentRepository struct {
	sqlRepository
}

func NewTournamentRepository(db *sql.DB, dialect Dialect) TournamentRepository {
	return &sqlTournamentRepository{sqlRepository{db: db, dialect: dialect}}
}

func (r *sqlTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	t.CreatedAt = time.Now().UTC()
	query := r.rebind(`INSERT INTO tournaments (name, created_at) VALUES (?, ?) RETURNING id`)
	if err := r.db.QueryRowContext(ctx, query, t.Name, t.CreatedAt).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := r.rebind(`SELECT id, name, created_at FROM tournaments WHERE id = ?`)

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *sqlTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM tournaments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

// Delete removes the tournament together with its participations and matches.
func (r *sqlTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM tournaments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
