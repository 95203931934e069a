package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/swiss-tournament/services"
)

type PairingHandler struct {
	pairingService services.PairingService
}

func NewPairingHandler(ps services.PairingService) *PairingHandler {
	return &PairingHandler{pairingService: ps}
}

// RoundStatus godoc
// @Summary Завершен ли текущий раунд
// @Tags pairings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.RoundStatus
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/round-status [get]
func (h *PairingHandler) RoundStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.pairingService.RoundStatus(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Pair godoc
// @Summary Сформировать пары следующего раунда
// @Tags pairings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param record_bye query bool false "Сразу записать бай"
// @Success 200 {object} models.Round
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Раунд не завершен"
// @Failure 422 {object} map[string]string "Слишком много игроков"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/pairings [post]
func (h *PairingHandler) Pair(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	recordBye := false
	if raw := r.URL.Query().Get("record_bye"); raw != "" {
		recordBye, err = strconv.ParseBool(raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid record_bye query parameter"))
			return
		}
	}

	round, err := h.pairingService.PairNextRound(r.Context(), tournamentID, recordBye)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
