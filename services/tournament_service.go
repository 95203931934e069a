package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type TournamentService interface {
	RegisterPlayer(ctx context.Context, name string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	CountPlayers(ctx context.Context) (int, error)
	DeletePlayers(ctx context.Context) (int64, error)

	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	GetTournamentOverview(ctx context.Context, id int) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error

	EnrollPlayer(ctx context.Context, tournamentID, playerID int) (*models.Participation, error)
	ListTournamentPlayers(ctx context.Context, tournamentID int) ([]models.Player, error)
	GetStandings(ctx context.Context, tournamentID int) ([]models.StandingsRow, error)

	ReportMatch(ctx context.Context, tournamentID, winnerID int, loserID *int) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
	DeleteMatches(ctx context.Context, tournamentID int) (int64, error)
	DeleteAllMatches(ctx context.Context) (int64, error)
}

type tournamentService struct {
	playerRepo        repositories.PlayerRepository
	tournamentRepo    repositories.TournamentRepository
	participationRepo repositories.ParticipationRepository
	matchRepo         repositories.MatchRepository
	standingRepo      repositories.StandingRepository
	notifier          notifier
	metrics           *metrics.Metrics
	logger            *slog.Logger
}

func NewTournamentService(
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	participationRepo repositories.ParticipationRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		playerRepo:        playerRepo,
		tournamentRepo:    tournamentRepo,
		participationRepo: participationRepo,
		matchRepo:         matchRepo,
		standingRepo:      standingRepo,
		notifier:          notifier{publisher: publisher, metrics: m},
		metrics:           m,
		logger:            logger,
	}
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	name, err := normalizeName(name, ErrPlayerNameRequired)
	if err != nil {
		return nil, err
	}

	player := &models.Player{Name: name}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, handleRepositoryError(err, "failed to register player")
	}
	s.logger.InfoContext(ctx, "player registered", slog.Int("player_id", player.ID))
	return player, nil
}

func (s *tournamentService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	return players, handleRepositoryError(err, "failed to list players")
}

func (s *tournamentService) CountPlayers(ctx context.Context) (int, error) {
	count, err := s.playerRepo.Count(ctx)
	return count, handleRepositoryError(err, "failed to count players")
}

// DeletePlayers removes every player, which also clears all participations
// and matches.
func (s *tournamentService) DeletePlayers(ctx context.Context) (int64, error) {
	deleted, err := s.playerRepo.DeleteAll(ctx)
	if err != nil {
		return 0, handleRepositoryError(err, "failed to delete players")
	}
	s.logger.WarnContext(ctx, "all players deleted", slog.Int64("deleted", deleted))
	return deleted, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name, err := normalizeName(name, ErrTournamentNameRequired)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{Name: name}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, handleRepositoryError(err, "failed to create tournament")
	}
	s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", tournament.ID))
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	return tournaments, handleRepositoryError(err, "failed to list tournaments")
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to get tournament")
	}
	return tournament, nil
}

// GetTournamentOverview loads the tournament with its standings and matches.
func (s *tournamentService) GetTournamentOverview(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standings, err := s.standingRepo.GetStandings(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to load standings: %w", err)
		}
		tournament.Standings = standings
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err, "failed to delete tournament")
	}
	s.notifier.publish(id, brackets.EventTournamentReset, map[string]interface{}{"tournament_id": id, "deleted": true})
	s.logger.InfoContext(ctx, "tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) EnrollPlayer(ctx context.Context, tournamentID, playerID int) (*models.Participation, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, handleRepositoryError(err, "failed to get player")
	}

	participation := &models.Participation{TournamentID: tournamentID, PlayerID: playerID}
	if err := s.participationRepo.Add(ctx, participation); err != nil {
		return nil, handleRepositoryError(err, "failed to enroll player")
	}
	return participation, nil
}

func (s *tournamentService) ListTournamentPlayers(ctx context.Context, tournamentID int) ([]models.Player, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	players, err := s.participationRepo.ListPlayers(ctx, tournamentID)
	return players, handleRepositoryError(err, "failed to list tournament players")
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int) ([]models.StandingsRow, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	standings, err := s.standingRepo.GetStandings(ctx, tournamentID)
	return standings, handleRepositoryError(err, "failed to get standings")
}

// ReportMatch records the outcome of a match. A nil loserID records a bye
// for the winner.
func (s *tournamentService) ReportMatch(ctx context.Context, tournamentID, winnerID int, loserID *int) (*models.Match, error) {
	if loserID != nil && *loserID == winnerID {
		return nil, ErrWinnerLoserSame
	}
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	participants := []int{winnerID}
	if loserID != nil {
		participants = append(participants, *loserID)
	}
	for _, playerID := range participants {
		ok, err := s.participationRepo.Exists(ctx, tournamentID, playerID)
		if err != nil {
			return nil, handleRepositoryError(err, "failed to check participation")
		}
		if !ok {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotInTournament, playerID)
		}
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Player1ID:    winnerID,
		Player2ID:    loserID,
		WinnerID:     winnerID,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		err = handleRepositoryError(err, "failed to report match")
		if !errors.Is(err, ErrMatchRematch) && !errors.Is(err, ErrByeAlreadyGranted) {
			s.logger.ErrorContext(ctx, "match report failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return nil, err
	}

	kind := "match"
	if match.IsBye() {
		kind = "bye"
	}
	if s.metrics != nil {
		s.metrics.MatchesReported.WithLabelValues(kind).Inc()
	}
	s.notifier.publish(tournamentID, brackets.EventMatchReported, match)
	s.logger.InfoContext(ctx, "match reported",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", match.ID),
		slog.String("kind", kind),
	)
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	return matches, handleRepositoryError(err, "failed to list matches")
}

// DeleteMatches clears the match history of one tournament, returning it to
// round one.
func (s *tournamentService) DeleteMatches(ctx context.Context, tournamentID int) (int64, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	deleted, err := s.matchRepo.DeleteByTournament(ctx, tournamentID)
	if err != nil {
		return 0, handleRepositoryError(err, "failed to delete matches")
	}
	s.notifier.publish(tournamentID, brackets.EventTournamentReset, map[string]interface{}{"tournament_id": tournamentID, "matches_deleted": deleted})
	s.logger.WarnContext(ctx, "tournament matches deleted", slog.Int("tournament_id", tournamentID), slog.Int64("deleted", deleted))
	return deleted, nil
}

func (s *tournamentService) DeleteAllMatches(ctx context.Context) (int64, error) {
	deleted, err := s.matchRepo.DeleteAll(ctx)
	if err != nil {
		return 0, handleRepositoryError(err, "failed to delete matches")
	}
	s.logger.WarnContext(ctx, "all matches deleted", slog.Int64("deleted", deleted))
	return deleted, nil
}
