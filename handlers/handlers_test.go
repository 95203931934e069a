package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

// fakeTournamentService implements only what the handlers under test call;
// anything else panics through the nil embedded interface.
type fakeTournamentService struct {
	services.TournamentService

	reportErr   error
	gotLoser    *int
	gotWinner   int
	standings   []models.StandingsRow
	standingErr error
}

func (f *fakeTournamentService) RegisterPlayer(_ context.Context, name string) (*models.Player, error) {
	return &models.Player{ID: 1, Name: name}, nil
}

func (f *fakeTournamentService) ReportMatch(_ context.Context, tournamentID, winnerID int, loserID *int) (*models.Match, error) {
	f.gotWinner, f.gotLoser = winnerID, loserID
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return &models.Match{ID: 7, TournamentID: tournamentID, Player1ID: winnerID, Player2ID: loserID, WinnerID: winnerID}, nil
}

func (f *fakeTournamentService) GetStandings(context.Context, int) ([]models.StandingsRow, error) {
	return f.standings, f.standingErr
}

type fakePairingService struct {
	round     *models.Round
	err       error
	recordBye bool
}

func (f *fakePairingService) RoundStatus(_ context.Context, tournamentID int) (*models.RoundStatus, error) {
	return &models.RoundStatus{TournamentID: tournamentID, Complete: true, CurrentRound: 2, Players: 4}, f.err
}

func (f *fakePairingService) PairNextRound(_ context.Context, _ int, recordBye bool) (*models.Round, error) {
	f.recordBye = recordBye
	return f.round, f.err
}

func newTestRouter(th *TournamentHandler, mh *MatchHandler, ph *PairingHandler, plh *PlayerHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/players", plh.Create)
	r.Get("/tournaments/{tournamentID}/standings", th.Standings)
	r.Post("/tournaments/{tournamentID}/matches", mh.Report)
	r.Get("/tournaments/{tournamentID}/round-status", ph.RoundStatus)
	r.Post("/tournaments/{tournamentID}/pairings", ph.Pair)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestReportMatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantBye    bool
	}{
		{name: "regular match", body: `{"winner_id": 3, "loser_id": 4}`, wantStatus: http.StatusCreated},
		{name: "bye when loser omitted", body: `{"winner_id": 3}`, wantStatus: http.StatusCreated, wantBye: true},
		{name: "missing winner", body: `{"loser_id": 4}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"winner_id": 3, "score": "1-0"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"winner_id": `, wantStatus: http.StatusBadRequest},
		{name: "rematch", body: `{"winner_id": 3, "loser_id": 4}`, serviceErr: services.ErrMatchRematch, wantStatus: http.StatusConflict},
		{name: "second bye", body: `{"winner_id": 3}`, serviceErr: services.ErrByeAlreadyGranted, wantStatus: http.StatusConflict},
		{name: "same player", body: `{"winner_id": 3, "loser_id": 3}`, serviceErr: services.ErrWinnerLoserSame, wantStatus: http.StatusBadRequest},
		{name: "unknown tournament", body: `{"winner_id": 3}`, serviceErr: fmt.Errorf("report: %w", services.ErrTournamentNotFound), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &fakeTournamentService{reportErr: tt.serviceErr}
			router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(&fakePairingService{}), NewPlayerHandler(ts))

			rec, env := do(t, router, http.MethodPost, "/tournaments/5/matches", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, 3, ts.gotWinner)
				assert.Equal(t, tt.wantBye, ts.gotLoser == nil)
				assert.Contains(t, env, "match")
			} else {
				assert.Contains(t, env, "error")
			}
		})
	}
}

func TestReportMatchRejectsBadTournamentID(t *testing.T) {
	ts := &fakeTournamentService{}
	router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(&fakePairingService{}), NewPlayerHandler(ts))

	rec, _ := do(t, router, http.MethodPost, "/tournaments/abc/matches", `{"winner_id": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/tournaments/0/matches", `{"winner_id": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPair(t *testing.T) {
	p2, n2 := 2, "Bob"
	round := &models.Round{
		TournamentID: 5,
		Number:       1,
		Pairings:     []models.Pairing{{Player1ID: 1, Player1Name: "Alice", Player2ID: &p2, Player2Name: &n2}},
	}

	tests := []struct {
		name          string
		query         string
		err           error
		wantStatus    int
		wantRecordBye bool
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "record bye", query: "?record_bye=true", wantStatus: http.StatusOK, wantRecordBye: true},
		{name: "bad record_bye", query: "?record_bye=maybe", wantStatus: http.StatusBadRequest},
		{name: "round not complete", err: brackets.ErrRoundNotComplete, wantStatus: http.StatusConflict},
		{name: "too many players", err: brackets.ErrTooManyPlayers, wantStatus: http.StatusUnprocessableEntity},
		{name: "incomplete matching", err: brackets.ErrIncompleteMatching, wantStatus: http.StatusInternalServerError},
		{name: "exhausted bye", err: brackets.ErrExhaustedBye, wantStatus: http.StatusInternalServerError},
		{name: "unknown tournament", err: services.ErrTournamentNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &fakePairingService{round: round, err: tt.err}
			ts := &fakeTournamentService{}
			router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(ps), NewPlayerHandler(ts))

			rec, env := do(t, router, http.MethodPost, "/tournaments/5/pairings"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantRecordBye, ps.recordBye)

			var got models.Round
			require.NoError(t, json.Unmarshal(env["round"], &got))
			assert.Equal(t, 1, got.Number)
			require.Len(t, got.Pairings, 1)
			assert.Equal(t, "Alice", got.Pairings[0].Player1Name)
			assert.Equal(t, "Bob", *got.Pairings[0].Player2Name)
		})
	}
}

func TestRoundStatus(t *testing.T) {
	ts := &fakeTournamentService{}
	router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(&fakePairingService{}), NewPlayerHandler(ts))

	rec, env := do(t, router, http.MethodGet, "/tournaments/9/round-status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status models.RoundStatus
	require.NoError(t, json.Unmarshal(env["status"], &status))
	assert.Equal(t, models.RoundStatus{TournamentID: 9, Complete: true, CurrentRound: 2, Players: 4}, status)
}

func TestStandingsServerError(t *testing.T) {
	ts := &fakeTournamentService{standingErr: errors.New("connection reset")}
	router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(&fakePairingService{}), NewPlayerHandler(ts))

	rec, env := do(t, router, http.MethodGet, "/tournaments/1/standings", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, string(env["error"]), "connection reset")
}

func TestCreatePlayerValidation(t *testing.T) {
	ts := &fakeTournamentService{}
	router := newTestRouter(NewTournamentHandler(ts), NewMatchHandler(ts), NewPairingHandler(&fakePairingService{}), NewPlayerHandler(ts))

	rec, env := do(t, router, http.MethodPost, "/players", `{"name": ""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env["error"], &fields))
	assert.Equal(t, "must be provided", fields["name"])

	rec, env = do(t, router, http.MethodPost, "/players", `{"name": "Magnus"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, env, "player")
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker(nil)
	assert.True(t, open(req("https://evil.example")))

	wildcard := originChecker([]string{"https://a.example", "*"})
	assert.True(t, wildcard(req("https://evil.example")))

	strict := originChecker([]string{"https://a.example"})
	assert.True(t, strict(req("https://a.example")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("https://evil.example")))
}
