package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tournament/matching"
	"github.com/Dosada05/swiss-tournament/models"
)

// BuildEdges returns one edge per pair of players who have not met yet.
// Vertices are positions in standings. The weight favours opponents with
// close win counts: standings[i].Matches minus the win difference.
func BuildEdges(ctx context.Context, history HistoryOracle, tournamentID int, standings []models.StandingsRow) ([]matching.Edge, error) {
	var edges []matching.Edge
	for i := 0; i < len(standings); i++ {
		for j := i + 1; j < len(standings); j++ {
			played, err := history.HaveAlreadyPlayed(ctx, tournamentID, standings[i].PlayerID, standings[j].PlayerID)
			if err != nil {
				return nil, fmt.Errorf("failed to check history of players %d and %d: %w",
					standings[i].PlayerID, standings[j].PlayerID, err)
			}
			if played {
				continue
			}
			edges = append(edges, matching.Edge{
				I:      i,
				J:      j,
				Weight: int64(standings[i].Matches - absInt(standings[i].Wins-standings[j].Wins)),
			})
		}
	}
	return edges, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
