package brackets

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/Dosada05/swiss-tournament/models"
)

// SelectBye picks a player who has not had a bye in this tournament. Each
// candidate is drawn uniformly from a shrinking pool, so at most
// len(standings) history lookups are made. The returned remaining standings
// keep their original order.
func SelectBye(ctx context.Context, rng Intner, history HistoryOracle, tournamentID int, standings []models.StandingsRow) (models.StandingsRow, []models.StandingsRow, error) {
	pool := lo.Range(len(standings))

	for len(pool) > 0 {
		k := rng.Intn(len(pool))
		idx := pool[k]

		hadBye, err := history.HadBye(ctx, tournamentID, standings[idx].PlayerID)
		if err != nil {
			return models.StandingsRow{}, nil, fmt.Errorf("failed to check bye for player %d: %w", standings[idx].PlayerID, err)
		}
		if hadBye {
			pool[k] = pool[len(pool)-1]
			pool = pool[:len(pool)-1]
			continue
		}

		remaining := make([]models.StandingsRow, 0, len(standings)-1)
		remaining = append(remaining, standings[:idx]...)
		remaining = append(remaining, standings[idx+1:]...)
		return standings[idx], remaining, nil
	}

	return models.StandingsRow{}, nil, ErrExhaustedBye
}
