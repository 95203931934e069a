package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

// Pairer is the engine contract used by the service; *brackets.SwissPairer
// implements it.
type Pairer interface {
	IsRoundComplete(ctx context.Context, tournamentID int) (bool, error)
	PlanNextRound(ctx context.Context, tournamentID int) (brackets.RoundPlan, error)
}

type PairingService interface {
	RoundStatus(ctx context.Context, tournamentID int) (*models.RoundStatus, error)
	PairNextRound(ctx context.Context, tournamentID int, recordBye bool) (*models.Round, error)
}

type pairingService struct {
	pairer         Pairer
	tournamentRepo repositories.TournamentRepository
	standingRepo   repositories.StandingRepository
	matchRepo      repositories.MatchRepository
	archiver       storage.RoundArchiver
	notifier       notifier
	metrics        *metrics.Metrics
	logger         *slog.Logger
	inflight       singleflight.Group
	now            func() time.Time
}

// NewPairingService wires the engine with bookkeeping. archiver may be nil
// when no archive bucket is configured.
func NewPairingService(
	pairer Pairer,
	tournamentRepo repositories.TournamentRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	archiver storage.RoundArchiver,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) PairingService {
	return &pairingService{
		pairer:         pairer,
		tournamentRepo: tournamentRepo,
		standingRepo:   standingRepo,
		matchRepo:      matchRepo,
		archiver:       archiver,
		notifier:       notifier{publisher: publisher, metrics: m},
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *pairingService) RoundStatus(ctx context.Context, tournamentID int) (*models.RoundStatus, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err, "failed to get tournament")
	}

	complete, err := s.pairer.IsRoundComplete(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	standings, err := s.standingRepo.GetStandings(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to get standings")
	}

	return &models.RoundStatus{
		TournamentID: tournamentID,
		Complete:     complete,
		CurrentRound: brackets.CurrentRound(standings),
		Players:      len(standings),
	}, nil
}

// PairNextRound computes the next round. Concurrent requests for the same
// tournament share one computation, so a round is never published twice; a
// request joining one in flight gets its result, ByeRecorded included. The
// shared work is detached from the caller's cancellation so one client
// disconnecting does not fail the others.
func (s *pairingService) PairNextRound(ctx context.Context, tournamentID int, recordBye bool) (*models.Round, error) {
	key := strconv.Itoa(tournamentID)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.pairNextRound(context.WithoutCancel(ctx), tournamentID, recordBye)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Round), nil
}

func (s *pairingService) pairNextRound(ctx context.Context, tournamentID int, recordBye bool) (*models.Round, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err, "failed to get tournament")
	}

	start := s.now()
	plan, err := s.pairer.PlanNextRound(ctx, tournamentID)
	s.observe(err, plan.Players, s.now().Sub(start))
	if err != nil {
		if errors.Is(err, brackets.ErrExhaustedBye) || errors.Is(err, brackets.ErrIncompleteMatching) {
			s.logger.ErrorContext(ctx, "pairing failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return nil, err
	}
	pairs := plan.Pairings

	round := &models.Round{
		TournamentID: tournamentID,
		Number:       plan.Number,
		Pairings:     pairs,
		GeneratedAt:  s.now().UTC(),
	}
	if bye, ok := lo.Find(pairs, func(p models.Pairing) bool { return p.IsBye() }); ok {
		round.Bye = &bye
	}

	if recordBye && round.Bye != nil {
		match := &models.Match{TournamentID: tournamentID, Player1ID: round.Bye.Player1ID, WinnerID: round.Bye.Player1ID}
		if err := s.matchRepo.Create(ctx, nil, match); err != nil {
			return nil, handleRepositoryError(err, "failed to record bye")
		}
		round.ByeRecorded = true
		if s.metrics != nil {
			s.metrics.MatchesReported.WithLabelValues("bye").Inc()
		}
	}

	if s.archiver != nil {
		res, err := s.archiver.Archive(ctx, *round)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to archive round", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		} else if res.Location != "" {
			round.ArchiveURL = &res.Location
		}
	}

	s.notifier.publish(tournamentID, brackets.EventPairingsPublished, round)
	s.logger.InfoContext(ctx, "round paired",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round.Number),
		slog.Int("pairs", len(pairs)),
		slog.Bool("bye_recorded", round.ByeRecorded),
	)
	return round, nil
}

func (s *pairingService) observe(err error, players int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, brackets.ErrRoundNotComplete):
		outcome = metrics.OutcomeRoundNotComplete
	case errors.Is(err, brackets.ErrExhaustedBye):
		outcome = metrics.OutcomeExhaustedBye
	case errors.Is(err, brackets.ErrIncompleteMatching):
		outcome = metrics.OutcomeIncompleteMatch
	case errors.Is(err, brackets.ErrTooManyPlayers):
		outcome = metrics.OutcomeTooManyPlayers
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.ObservePairing(outcome, players, elapsed)
}
