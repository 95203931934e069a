package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

type testStore struct {
	conn           *sql.DB
	players        PlayerRepository
	tournaments    TournamentRepository
	participations ParticipationRepository
	matches        MatchRepository
	standings      StandingRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testStore{
		conn:           conn,
		players:        NewPlayerRepository(conn, DialectSQLite),
		tournaments:    NewTournamentRepository(conn, DialectSQLite),
		participations: NewParticipationRepository(conn, DialectSQLite),
		matches:        NewMatchRepository(conn, DialectSQLite),
		standings:      NewStandingRepository(conn, DialectSQLite),
	}
}

// seed creates a tournament with the named players enrolled.
func (s *testStore) seed(t *testing.T, names ...string) (int, []int) {
	t.Helper()
	ctx := context.Background()
	tournament := &models.Tournament{Name: "Spring Open"}
	require.NoError(t, s.tournaments.Create(ctx, tournament))

	ids := make([]int, 0, len(names))
	for _, name := range names {
		p := &models.Player{Name: name}
		require.NoError(t, s.players.Create(ctx, p))
		require.NoError(t, s.participations.Add(ctx, &models.Participation{TournamentID: tournament.ID, PlayerID: p.ID}))
		ids = append(ids, p.ID)
	}
	return tournament.ID, ids
}

func intPtr(v int) *int { return &v }

func TestRebind(t *testing.T) {
	q := `SELECT 1 FROM matches WHERE tournament_id = ? AND player1_id = ?`
	assert.Equal(t, q, rebind(DialectSQLite, q))
	assert.Equal(t, `SELECT 1 FROM matches WHERE tournament_id = $1 AND player1_id = $2`, rebind(DialectPostgres, q))
}

func TestPlayerRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("Create assigns id", func(t *testing.T) {
		p := &models.Player{Name: "Twilight Sparkle"}
		require.NoError(t, s.players.Create(ctx, p))
		assert.NotZero(t, p.ID)

		got, err := s.players.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Twilight Sparkle", got.Name)
	})

	t.Run("GetByID unknown", func(t *testing.T) {
		_, err := s.players.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("Count and DeleteAll", func(t *testing.T) {
		require.NoError(t, s.players.Create(ctx, &models.Player{Name: "Fluttershy"}))
		count, err := s.players.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		players, err := s.players.List(ctx)
		require.NoError(t, err)
		assert.Len(t, players, 2)

		deleted, err := s.players.DeleteAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted)

		count, err = s.players.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestTournamentRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tournament := &models.Tournament{Name: "Winter Cup"}
	require.NoError(t, s.tournaments.Create(ctx, tournament))

	got, err := s.tournaments.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter Cup", got.Name)

	list, err := s.tournaments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.tournaments.Delete(ctx, tournament.ID))
	assert.ErrorIs(t, s.tournaments.Delete(ctx, tournament.ID), ErrTournamentNotFound)

	_, err = s.tournaments.GetByID(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestParticipationRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tid, ids := s.seed(t, "Markov", "Bayes")

	err := s.participations.Add(ctx, &models.Participation{TournamentID: tid, PlayerID: ids[0]})
	assert.ErrorIs(t, err, ErrParticipationConflict)

	err = s.participations.Add(ctx, &models.Participation{TournamentID: tid, PlayerID: 9999})
	assert.ErrorIs(t, err, ErrParticipationInvalid)

	exists, err := s.participations.Exists(ctx, tid, ids[1])
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.participations.Exists(ctx, tid, 9999)
	require.NoError(t, err)
	assert.False(t, exists)

	players, err := s.participations.ListPlayers(ctx, tid)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestMatchRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tid, ids := s.seed(t, "Alice", "Bob", "Carol")
	alice, bob, carol := ids[0], ids[1], ids[2]

	t.Run("Create stores canonical order", func(t *testing.T) {
		m := &models.Match{TournamentID: tid, Player1ID: alice, Player2ID: intPtr(bob), WinnerID: alice}
		require.NoError(t, s.matches.Create(ctx, nil, m))
		assert.Equal(t, bob, m.Player1ID)
		assert.Equal(t, alice, *m.Player2ID)

		played, err := s.matches.HaveAlreadyPlayed(ctx, tid, alice, bob)
		require.NoError(t, err)
		assert.True(t, played)

		played, err = s.matches.HaveAlreadyPlayed(ctx, tid, bob, alice)
		require.NoError(t, err)
		assert.True(t, played)

		played, err = s.matches.HaveAlreadyPlayed(ctx, tid, alice, carol)
		require.NoError(t, err)
		assert.False(t, played)
	})

	t.Run("Rematch rejected in either order", func(t *testing.T) {
		err := s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: bob, Player2ID: intPtr(alice), WinnerID: bob})
		assert.ErrorIs(t, err, ErrMatchRematch)
	})

	t.Run("Bye recorded once", func(t *testing.T) {
		hadBye, err := s.matches.HadBye(ctx, tid, carol)
		require.NoError(t, err)
		assert.False(t, hadBye)

		require.NoError(t, s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: carol, WinnerID: carol}))

		hadBye, err = s.matches.HadBye(ctx, tid, carol)
		require.NoError(t, err)
		assert.True(t, hadBye)

		err = s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: carol, WinnerID: carol})
		assert.ErrorIs(t, err, ErrMatchByeTaken)
	})

	t.Run("Winner must take part", func(t *testing.T) {
		err := s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: alice, Player2ID: intPtr(carol), WinnerID: bob})
		assert.ErrorIs(t, err, ErrMatchParticipantInvalid)
	})

	t.Run("List and counts", func(t *testing.T) {
		matches, err := s.matches.ListByTournament(ctx, tid)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.False(t, matches[0].IsBye())
		assert.True(t, matches[1].IsBye())

		count, err := s.matches.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		byes, err := s.matches.CountByes(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, byes)
	})

	t.Run("DeleteByTournament", func(t *testing.T) {
		deleted, err := s.matches.DeleteByTournament(ctx, tid)
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted)

		played, err := s.matches.HaveAlreadyPlayed(ctx, tid, alice, bob)
		require.NoError(t, err)
		assert.False(t, played)
	})
}

func TestStandingRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("fresh tournament", func(t *testing.T) {
		tid, ids := s.seed(t, "Alice", "Bob", "Carol", "Dave")
		standings, err := s.standings.GetStandings(ctx, tid)
		require.NoError(t, err)
		require.Len(t, standings, 4)
		for i, row := range standings {
			assert.Equal(t, ids[i], row.PlayerID)
			assert.Zero(t, row.Wins)
			assert.Zero(t, row.Matches)
		}
	})

	t.Run("wins and byes counted", func(t *testing.T) {
		tid, ids := s.seed(t, "Eve", "Frank", "Grace")
		eve, frank, grace := ids[0], ids[1], ids[2]
		require.NoError(t, s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: eve, Player2ID: intPtr(frank), WinnerID: frank}))
		require.NoError(t, s.matches.Create(ctx, nil, &models.Match{TournamentID: tid, Player1ID: grace, WinnerID: grace}))

		standings, err := s.standings.GetStandings(ctx, tid)
		require.NoError(t, err)
		require.Len(t, standings, 3)

		assert.Equal(t, models.StandingsRow{PlayerID: frank, Name: "Frank", Wins: 1, Matches: 1}, standings[0])
		assert.Equal(t, models.StandingsRow{PlayerID: grace, Name: "Grace", Wins: 1, Matches: 1}, standings[1])
		assert.Equal(t, models.StandingsRow{PlayerID: eve, Name: "Eve", Wins: 0, Matches: 1}, standings[2])
	})

	t.Run("unknown tournament", func(t *testing.T) {
		standings, err := s.standings.GetStandings(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, standings)
	})
}
