package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitpay/internal/ledger"
	"github.com/mmynk/splitpay/internal/models"
)

type balancesResponse struct {
	Balances map[string]float64 `json:"balances"`
	Debts    []ledger.Debt      `json:"debts"`
	Summary  ledger.Summary     `json:"summary"`
}

// getBalances runs the full pipeline over a snapshot of the group's records:
// expenses reduce to balances, balances simplify to debts, and recorded
// settlements offset the debts. Nothing is cached or written back.
func (a *App) getBalances(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	expenses, err := a.store.ListExpensesByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("ListExpensesByGroup failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	settlements, err := a.store.ListSettlementsByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("ListSettlementsByGroup failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load settlements")
		return
	}

	ledgerExpenses := toLedgerExpenses(expenses)
	ledgerSettlements := toLedgerSettlements(settlements)

	balances := ledger.ComputeBalances(ledgerExpenses, group.Members)
	debts := ledger.Reconcile(ledger.Simplify(balances), ledgerSettlements)
	summary := ledger.Summarize(ledgerExpenses)

	slog.Info("Balances computed",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"debts_count", len(debts),
	)
	respondWithJSON(w, http.StatusOK, balancesResponse{
		Balances: balances,
		Debts:    debts,
		Summary:  summary,
	})
}

func toLedgerExpenses(expenses []*models.Expense) []ledger.Expense {
	out := make([]ledger.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = ledger.Expense{
			Title:    e.Title,
			Category: e.Category,
			Amount:   e.Amount,
			Payer:    e.Payer,
			Involved: e.Involved,
			Settled:  e.Settled,
		}
	}
	return out
}

func toLedgerSettlements(settlements []*models.Settlement) []ledger.Settlement {
	out := make([]ledger.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = ledger.Settlement{
			FromUser: s.FromUser,
			ToUser:   s.ToUser,
			Amount:   s.Amount,
		}
	}
	return out
}
