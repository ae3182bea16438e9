package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input services.ScheduleMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Schedule(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter, err := parseMatchFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseMatchFilter(r *http.Request) (repositories.MatchFilter, error) {
	var filter repositories.MatchFilter
	query := r.URL.Query()

	if phaseStr := query.Get("phase_id"); phaseStr != "" {
		id, err := strconv.Atoi(phaseStr)
		if err != nil || id <= 0 {
			return filter, errors.New("invalid phase_id query parameter")
		}
		filter.PhaseID = &id
	}
	if dayStr := query.Get("match_day"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil || day <= 0 {
			return filter, errors.New("invalid match_day query parameter")
		}
		filter.MatchDay = &day
	}
	if teamStr := query.Get("team_id"); teamStr != "" {
		id, err := strconv.Atoi(teamStr)
		if err != nil || id <= 0 {
			return filter, errors.New("invalid team_id query parameter")
		}
		filter.TeamID = &id
	}
	if completedStr := query.Get("completed"); completedStr != "" {
		completed, err := strconv.ParseBool(completedStr)
		if err != nil {
			return filter, errors.New("invalid completed query parameter")
		}
		filter.Completed = &completed
	}
	filter.GroupStage = query.Get("group_stage") == "true"

	return filter, nil
}

func (h *MatchHandler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID  int                          `json:"team_id"`
		Entries []services.LineupEntryInput `json:"entries"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}
	if len(input.Entries) == 0 {
		badRequestResponse(w, r, errors.New("at least one lineup entry is required"))
		return
	}

	entries, err := h.matchService.SubmitLineup(r.Context(), matchID, input.TeamID, input.Entries)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CompleteMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Complete(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordWalkover(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		AbsentTeamID int                   `json:"absent_team_id"`
		Reason       models.WalkoverReason `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.AbsentTeamID <= 0 {
		badRequestResponse(w, r, errors.New("absent_team_id is required"))
		return
	}

	match, err := h.matchService.RecordWalkover(r.Context(), matchID, input.AbsentTeamID, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
