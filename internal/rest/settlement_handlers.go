package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitpay/internal/models"
)

type settlementRequest struct {
	FromUser string  `json:"from_user" validate:"required"`
	ToUser   string  `json:"to_user" validate:"required,nefield=FromUser"`
	Amount   float64 `json:"amount" validate:"omitempty,gt=0"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes    string  `json:"notes"`

	// Payments made in another currency: the server converts into the
	// group's ledger currency using the configured rate source.
	OriginalAmount   float64 `json:"original_amount" validate:"omitempty,gt=0"`
	OriginalCurrency string  `json:"original_currency" validate:"omitempty,len=3"`
}

type settlementResponse struct {
	ID               string  `json:"id"`
	GroupID          string  `json:"group_id"`
	FromUser         string  `json:"from_user"`
	ToUser           string  `json:"to_user"`
	Amount           float64 `json:"amount"`
	Date             string  `json:"date"`
	Notes            string  `json:"notes,omitempty"`
	OriginalAmount   float64 `json:"original_amount,omitempty"`
	OriginalCurrency string  `json:"original_currency,omitempty"`
	ExchangeRate     float64 `json:"exchange_rate,omitempty"`
	CreatedAt        int64   `json:"created_at"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:               s.ID,
		GroupID:          s.GroupID,
		FromUser:         s.FromUser,
		ToUser:           s.ToUser,
		Amount:           s.Amount,
		Date:             s.Date,
		Notes:            s.Notes,
		OriginalAmount:   s.OriginalAmount,
		OriginalCurrency: s.OriginalCurrency,
		ExchangeRate:     s.ExchangeRate,
		CreatedAt:        s.CreatedAt,
	}
}

func (a *App) createSettlement(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req settlementRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	if !isMember(req.FromUser, group.Members) || !isMember(req.ToUser, group.Members) {
		respondWithError(w, http.StatusBadRequest, "from_user and to_user must be group members")
		return
	}

	settlement := &models.Settlement{
		GroupID:  groupID,
		FromUser: req.FromUser,
		ToUser:   req.ToUser,
		Amount:   req.Amount,
		Date:     req.Date,
		Notes:    req.Notes,
	}

	// A payment in a foreign currency carries original_amount and
	// original_currency instead of amount; convert before persisting so the
	// ledger only ever sees amounts in its own currency.
	if req.OriginalCurrency != "" && req.OriginalCurrency != group.Currency {
		if req.OriginalAmount <= 0 {
			respondWithError(w, http.StatusBadRequest, "original_amount required with original_currency")
			return
		}
		rate, err := a.rates.Rate(r.Context(), req.OriginalCurrency, group.Currency)
		if err != nil {
			slog.Error("Rate lookup failed",
				"from", req.OriginalCurrency,
				"to", group.Currency,
				"error", err,
			)
			respondWithError(w, http.StatusBadGateway,
				fmt.Sprintf("failed to look up %s/%s rate", req.OriginalCurrency, group.Currency))
			return
		}
		settlement.OriginalAmount = req.OriginalAmount
		settlement.OriginalCurrency = req.OriginalCurrency
		settlement.ExchangeRate = rate
		settlement.Amount = req.OriginalAmount * rate
	}

	if settlement.Amount <= 0 {
		respondWithError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := a.store.CreateSettlement(r.Context(), settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to record settlement")
		return
	}

	settlementsRecorded.Inc()
	slog.Info("Settlement recorded",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"from", settlement.FromUser,
		"to", settlement.ToUser,
		"amount", settlement.Amount,
	)
	respondWithJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (a *App) listSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	if _, err := a.store.GetGroup(r.Context(), groupID); err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	settlements, err := a.store.ListSettlementsByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("ListSettlementsByGroup failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list settlements")
		return
	}

	resp := make([]settlementResponse, len(settlements))
	for i, s := range settlements {
		resp[i] = toSettlementResponse(s)
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (a *App) deleteSettlement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID, settlementID := vars["id"], vars["settlementID"]

	if err := a.store.DeleteSettlement(r.Context(), settlementID); err != nil {
		respondWithError(w, http.StatusNotFound, "settlement not found")
		return
	}
	slog.Info("Settlement deleted", "group_id", groupID, "settlement_id", settlementID)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
