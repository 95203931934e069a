package brackets

import (
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// Assemble turns a partner array into pairings. The bye, if any, is emitted
// first. Every player in standings must have a partner.
func Assemble(bye *models.StandingsRow, standings []models.StandingsRow, partners []int) ([]models.Pairing, error) {
	pairs := make([]models.Pairing, 0, len(standings)/2+1)
	if bye != nil {
		pairs = append(pairs, models.Pairing{
			Player1ID:   bye.PlayerID,
			Player1Name: bye.Name,
		})
	}

	for i := range standings {
		if i >= len(partners) || partners[i] < 0 || partners[i] >= len(standings) {
			return nil, fmt.Errorf("%w: player %d", ErrIncompleteMatching, standings[i].PlayerID)
		}
		j := partners[i]
		if j == i || j >= len(partners) || partners[j] != i {
			return nil, fmt.Errorf("%w: player %d", ErrIncompleteMatching, standings[i].PlayerID)
		}
		if i > j {
			continue
		}
		opponentID := standings[j].PlayerID
		opponentName := standings[j].Name
		pairs = append(pairs, models.Pairing{
			Player1ID:   standings[i].PlayerID,
			Player1Name: standings[i].Name,
			Player2ID:   &opponentID,
			Player2Name: &opponentName,
		})
	}
	return pairs, nil
}
