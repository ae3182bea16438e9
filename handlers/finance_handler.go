package handlers

import (
	"errors"
	"net/http"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/services"
)

type FinanceHandler struct {
	financeService services.FinanceService
}

func NewFinanceHandler(financeService services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (h *FinanceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var input services.PaymentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	transaction, err := h.financeService.RecordPayment(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"transaction": transaction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) TeamLedger(w http.ResponseWriter, r *http.Request) {
	teamID, err := readIDParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	transactions, err := h.financeService.TeamLedger(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) TeamBalance(w http.ResponseWriter, r *http.Request) {
	teamID, err := readIDParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	balance, err := h.financeService.TeamBalance(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"balance": balance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) PayCardFine(w http.ResponseWriter, r *http.Request) {
	cardID, err := readIDParam(r, "cardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Method    models.PaymentMethod `json:"method"`
		Reference *string              `json:"reference"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Method == "" {
		badRequestResponse(w, r, errors.New("method is required"))
		return
	}

	transaction, err := h.financeService.PayCardFine(r.Context(), cardID, input.Method, input.Reference)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"transaction": transaction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) CollectRefereeFee(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int                  `json:"team_id"`
		Method models.PaymentMethod `json:"method"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}
	if input.Method == "" {
		badRequestResponse(w, r, errors.New("method is required"))
		return
	}

	transaction, err := h.financeService.CollectRefereeFee(r.Context(), matchID, input.TeamID, input.Method)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"transaction": transaction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) RefereePayments(w http.ResponseWriter, r *http.Request) {
	refereeID, err := readIDParam(r, "refereeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	unpaidOnly := r.URL.Query().Get("unpaid") == "true"

	payments, err := h.financeService.RefereePayments(r.Context(), refereeID, unpaidOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payments": payments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FinanceHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "transactionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.financeService.DeleteTransaction(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
