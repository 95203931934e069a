package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type PlayerHandler struct {
	tournamentService services.TournamentService
}

func NewPlayerHandler(ts services.TournamentService) *PlayerHandler {
	return &PlayerHandler{tournamentService: ts}
}

type createPlayerInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Create godoc
// @Summary Зарегистрировать игрока
// @Tags players
// @Accept json
// @Produce json
// @Param input body createPlayerInput true "Player"
// @Success 201 {object} map[string]interface{} "Игрок создан"
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(input); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	player, err := h.tournamentService.RegisterPlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список игроков
// @Tags players
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /players [get]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.tournamentService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Count godoc
// @Summary Количество зарегистрированных игроков
// @Tags players
// @Produce json
// @Success 200 {object} map[string]int
// @Router /players/count [get]
func (h *PlayerHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.tournamentService.CountPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteAll godoc
// @Summary Удалить всех игроков (вместе с участиями и матчами)
// @Tags players
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /players [delete]
func (h *PlayerHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.tournamentService.DeletePlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
