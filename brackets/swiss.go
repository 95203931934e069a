package brackets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tournament/matching"
	"github.com/Dosada05/swiss-tournament/models"
)

var (
	ErrRoundNotComplete   = errors.New("current round is not complete")
	ErrExhaustedBye       = errors.New("every remaining player has already received a bye")
	ErrIncompleteMatching = errors.New("matching left a player without an opponent")
	ErrTooManyPlayers     = errors.New("too many players to pair in one round")
)

const DefaultMaxPlayers = 4096

// StandingsProvider returns the standings of every participant of a
// tournament, ordered by wins descending then player id ascending.
type StandingsProvider interface {
	GetStandings(ctx context.Context, tournamentID int) ([]models.StandingsRow, error)
}

// HistoryOracle answers questions about matches already reported.
type HistoryOracle interface {
	HaveAlreadyPlayed(ctx context.Context, tournamentID, playerA, playerB int) (bool, error)
	HadBye(ctx context.Context, tournamentID, playerID int) (bool, error)
}

type Matcher interface {
	Match(edges []matching.Edge, maxCardinality bool) []int
}

// Intner is the random source the bye draw uses. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// lockedRand serialises draws; *rand.Rand is not safe for concurrent use and
// one pairer serves every tournament.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

type SwissConfig struct {
	MaxPlayers int
	Rand       *rand.Rand
	Matcher    Matcher
}

// SwissPairer computes the next round of a Swiss-system tournament. It keeps
// no state between calls; every call re-reads standings and history.
type SwissPairer struct {
	standings  StandingsProvider
	history    HistoryOracle
	matcher    Matcher
	rng        *lockedRand
	maxPlayers int
	logger     *slog.Logger
}

func NewSwissPairer(standings StandingsProvider, history HistoryOracle, cfg SwissConfig, logger *slog.Logger) *SwissPairer {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultMaxPlayers
	}
	if cfg.Matcher == nil {
		cfg.Matcher = matching.Blossom{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SwissPairer{
		standings:  standings,
		history:    history,
		matcher:    cfg.Matcher,
		rng:        &lockedRand{src: cfg.Rand},
		maxPlayers: cfg.MaxPlayers,
		logger:     logger,
	}
}

// IsRoundComplete reports whether every participant has played the same
// number of matches. A tournament with zero or one player is always complete.
func (p *SwissPairer) IsRoundComplete(ctx context.Context, tournamentID int) (bool, error) {
	standings, err := p.standings.GetStandings(ctx, tournamentID)
	if err != nil {
		return false, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	return roundComplete(standings), nil
}

// RoundPlan is the outcome of one pairing computation. Number and Players
// describe the standings the pairings were computed from.
type RoundPlan struct {
	Number   int
	Players  int
	Pairings []models.Pairing
}

// ComputeNextRoundPairings returns the pairings of the next round. The bye,
// when the player count is odd, comes first with an empty second slot.
// Nothing is persisted.
func (p *SwissPairer) ComputeNextRoundPairings(ctx context.Context, tournamentID int) ([]models.Pairing, error) {
	plan, err := p.PlanNextRound(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return plan.Pairings, nil
}

// PlanNextRound is ComputeNextRoundPairings plus the round number and player
// count taken from the same standings read. Players is filled in on error too
// once standings were loaded.
func (p *SwissPairer) PlanNextRound(ctx context.Context, tournamentID int) (RoundPlan, error) {
	standings, err := p.standings.GetStandings(ctx, tournamentID)
	if err != nil {
		return RoundPlan{}, fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
	}
	plan := RoundPlan{Number: CurrentRound(standings), Players: len(standings)}
	if !roundComplete(standings) {
		return plan, ErrRoundNotComplete
	}
	if len(standings) < 2 {
		plan.Pairings = []models.Pairing{}
		return plan, nil
	}
	if len(standings) > p.maxPlayers {
		return plan, fmt.Errorf("%w: %d players, limit %d", ErrTooManyPlayers, len(standings), p.maxPlayers)
	}

	var bye *models.StandingsRow
	if len(standings)%2 == 1 {
		selected, remaining, err := SelectBye(ctx, p.rng, p.history, tournamentID, standings)
		if err != nil {
			return plan, err
		}
		bye = &selected
		standings = remaining
	}

	edges, err := BuildEdges(ctx, p.history, tournamentID, standings)
	if err != nil {
		return plan, err
	}

	partners := p.matcher.Match(edges, true)
	pairs, err := Assemble(bye, standings, partners)
	if err != nil {
		return plan, err
	}

	p.logger.DebugContext(ctx, "swiss round paired",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", plan.Number),
		slog.Int("players", plan.Players),
		slog.Int("edges", len(edges)),
		slog.Int("pairs", len(pairs)),
		slog.Bool("bye", bye != nil),
	)
	plan.Pairings = pairs
	return plan, nil
}

// CurrentRound returns the number of the round that would be paired next.
func CurrentRound(standings []models.StandingsRow) int {
	return maxMatches(standings) + 1
}

func roundComplete(standings []models.StandingsRow) bool {
	most := maxMatches(standings)
	for _, row := range standings {
		if row.Matches != most {
			return false
		}
	}
	return true
}

func maxMatches(standings []models.StandingsRow) int {
	most := 0
	for _, row := range standings {
		if row.Matches > most {
			most = row.Matches
		}
	}
	return most
}
