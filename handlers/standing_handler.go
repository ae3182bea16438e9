package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goolstar/goolstar-api/services"
)

type StandingHandler struct {
	standingService services.StandingService
}

func NewStandingHandler(standingService services.StandingService) *StandingHandler {
	return &StandingHandler{standingService: standingService}
}

// Tables recomputes the group tables from completed matches.
func (h *StandingHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tables, err := h.standingService.Tables(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tables": tables}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Persisted returns the stored standings rows.
func (h *StandingHandler) Persisted(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var groupCode *string
	if code := r.URL.Query().Get("group"); code != "" {
		groupCode = &code
	}

	standings, err := h.standingService.Persisted(r.Context(), tournamentID, groupCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingHandler) BestLosers(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := r.URL.Query()

	rank, err := strconv.Atoi(query.Get("rank"))
	if err != nil || rank <= 0 {
		badRequestResponse(w, r, errors.New("rank query parameter is required and must be positive"))
		return
	}
	slots, err := strconv.Atoi(query.Get("slots"))
	if err != nil || slots <= 0 {
		badRequestResponse(w, r, errors.New("slots query parameter is required and must be positive"))
		return
	}

	losers, err := h.standingService.BestLosers(r.Context(), tournamentID, rank, slots)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"best_losers": losers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
