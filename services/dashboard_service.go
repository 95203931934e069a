package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
) DashboardService {
	return &dashboardService{
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PlayersTotal, err = s.playerRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TournamentsTotal, err = s.tournamentRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesTotal, err = s.matchRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByesTotal, err = s.matchRepo.CountByes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, handleRepositoryError(err, "failed to load dashboard stats")
	}
	return stats, nil
}
