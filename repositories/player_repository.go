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
	ErrPlayerNotFound = errors.New("player not found")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type sqlPlayerRepository struct {
	sqlRepository
}

func NewPlayerRepository(db *sql.DB, dialect Dialect) PlayerRepository {
	return &sqlPlayerRepository{sqlRepository{db: db, dialect: dialect}}
}

func (r *sqlPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	p.CreatedAt = time.Now().UTC()
	query := r.rebind(`INSERT INTO players (name, created_at) VALUES (?, ?) RETURNING id`)
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.CreatedAt).Scan(&p.ID); err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *sqlPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := r.rebind(`SELECT id, name, created_at FROM players WHERE id = ?`)

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *sqlPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
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

func (r *sqlPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// DeleteAll removes every player. Participations and matches go with them.
func (r *sqlPlayerRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	return result.RowsAffected()
}
