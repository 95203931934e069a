package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dosada05/swiss-tournament/models"
)

// RoundArchiver keeps a JSON snapshot of every published round.
type RoundArchiver interface {
	Archive(ctx context.Context, round models.Round) (*UploadResult, error)
}

type uploaderRoundArchiver struct {
	uploader FileUploader
	prefix   string
}

func NewRoundArchiver(uploader FileUploader) RoundArchiver {
	return &uploaderRoundArchiver{uploader: uploader, prefix: "rounds"}
}

// RoundKey returns the object key of a round snapshot. The random suffix keeps
// snapshots of recomputed rounds apart.
func RoundKey(prefix string, round models.Round, id uuid.UUID) string {
	return fmt.Sprintf("%s/tournament-%d/round-%d-%s.json", prefix, round.TournamentID, round.Number, id)
}

func (a *uploaderRoundArchiver) Archive(ctx context.Context, round models.Round) (*UploadResult, error) {
	body, err := json.Marshal(round)
	if err != nil {
		return nil, fmt.Errorf("failed to encode round snapshot: %w", err)
	}
	key := RoundKey(a.prefix, round, uuid.New())
	return a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
}
