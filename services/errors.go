package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrNotFound           = errors.New("requested resource not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrNameTooLong            = errors.New("name must not be longer than 255 characters")
	ErrWinnerLoserSame        = errors.New("winner and loser must be different players")
	ErrPlayerNotInTournament  = errors.New("player is not registered for this tournament")
	ErrMatchInvalid           = errors.New("match participants are invalid")

	// Ошибки конфликтов
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")
	ErrMatchRematch         = errors.New("players have already met in this tournament")
	ErrByeAlreadyGranted    = errors.New("player has already received a bye in this tournament")

	// Ошибки аутентификации
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrAuthenticationFailed   = errors.New("authentication failed")
)
