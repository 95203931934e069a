package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

type memoryUploader struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryUploader) Upload(_ context.Context, key, contentType string, r io.Reader) (*UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.objects[key] = body
	m.types[key] = contentType
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *memoryUploader) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestRoundArchiver(t *testing.T) {
	up := newMemoryUploader()
	archiver := NewRoundArchiver(up)

	opponent := 2
	name := "Bob"
	round := models.Round{
		TournamentID: 7,
		Number:       3,
		Pairings: []models.Pairing{
			{Player1ID: 1, Player1Name: "Alice", Player2ID: &opponent, Player2Name: &name},
		},
	}

	res, err := archiver.Archive(context.Background(), round)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "rounds/tournament-7/round-3-"))
	assert.True(t, strings.HasSuffix(res.Key, ".json"))
	assert.Equal(t, "application/json", up.types[res.Key])

	var stored models.Round
	require.NoError(t, json.Unmarshal(up.objects[res.Key], &stored))
	assert.Equal(t, round.Pairings, stored.Pairings)
}

func TestRoundKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	key := RoundKey("rounds", models.Round{TournamentID: 1, Number: 2}, id)
	assert.Equal(t, "rounds/tournament-1/round-2-6ba7b810-9dad-11d1-80b4-00c04fd430c8.json", key)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example", "rounds/a.json", "https://cdn.example/rounds/a.json"},
		{"https://cdn.example/", "/rounds/a.json", "https://cdn.example/rounds/a.json"},
		{"https://cdn.example/archive", "rounds/a.json", "https://cdn.example/archive/rounds/a.json"},
		{"https://cdn.example", "", ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, publicURL(base, tt.key), tt.base+" + "+tt.key)
	}
}

func TestNewCloudflareR2UploaderRequiresConfig(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)
}
