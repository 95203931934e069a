package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/repositories"
)

const maxNameLength = 255

// EventPublisher delivers realtime tournament events. *brackets.Hub
// implements it.
type EventPublisher interface {
	Publish(tournamentID int, eventType string, payload interface{})
}

type notifier struct {
	publisher EventPublisher
	metrics   *metrics.Metrics
}

func (n notifier) publish(tournamentID int, eventType string, payload interface{}) {
	if n.publisher == nil {
		return
	}
	n.publisher.Publish(tournamentID, eventType, payload)
	if n.metrics != nil {
		n.metrics.HubBroadcasts.WithLabelValues(eventType).Inc()
	}
}

func normalizeName(name string, requiredErr error) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", requiredErr
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// handleRepositoryError maps repository sentinels onto service errors.
func handleRepositoryError(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrParticipationConflict):
		return ErrRegistrationConflict
	case errors.Is(err, repositories.ErrParticipationInvalid):
		return ErrNotFound
	case errors.Is(err, repositories.ErrMatchRematch):
		return ErrMatchRematch
	case errors.Is(err, repositories.ErrMatchByeTaken):
		return ErrByeAlreadyGranted
	case errors.Is(err, repositories.ErrMatchParticipantInvalid):
		return ErrMatchInvalid
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
