package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitpay/internal/models"
)

type expenseRequest struct {
	Title    string   `json:"title" validate:"required"`
	Category string   `json:"category"`
	Amount   float64  `json:"amount" validate:"required,gt=0"`
	Payer    string   `json:"payer" validate:"required"`
	Involved []string `json:"involved" validate:"omitempty,dive,required"`
	Settled  bool     `json:"settled"`
	Date     string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type settleExpensesRequest struct {
	ExpenseIDs []string `json:"expense_ids" validate:"required,min=1,dive,required"`
}

type expenseResponse struct {
	ID        string   `json:"id"`
	GroupID   string   `json:"group_id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Amount    float64  `json:"amount"`
	Payer     string   `json:"payer"`
	Involved  []string `json:"involved"`
	Settled   bool     `json:"settled"`
	Date      string   `json:"date"`
	CreatedAt int64    `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		GroupID:   e.GroupID,
		Title:     e.Title,
		Category:  e.Category,
		Amount:    e.Amount,
		Payer:     e.Payer,
		Involved:  e.Involved,
		Settled:   e.Settled,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}

// validateExpenseMembers checks the payer and every involved name against the
// group's member list. The ledger engine would silently drop unknown names;
// the API boundary rejects them instead so typos surface immediately.
func validateExpenseMembers(req *expenseRequest, members []string) error {
	if !isMember(req.Payer, members) {
		return fmt.Errorf("payer %q is not a group member", req.Payer)
	}
	for _, name := range req.Involved {
		if !isMember(name, members) {
			return fmt.Errorf("participant %q is not a group member", name)
		}
	}
	return nil
}

func (a *App) createExpense(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req expenseRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	if err := validateExpenseMembers(&req, group.Members); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense := &models.Expense{
		GroupID:  groupID,
		Title:    req.Title,
		Category: req.Category,
		Amount:   req.Amount,
		Payer:    req.Payer,
		Involved: req.Involved,
		Settled:  req.Settled,
		Date:     req.Date,
	}
	if err := a.store.CreateExpense(r.Context(), expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	expensesCreated.Inc()
	slog.Info("Expense created",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"payer", expense.Payer,
	)
	respondWithJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (a *App) listExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	if _, err := a.store.GetGroup(r.Context(), groupID); err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	expenses, err := a.store.ListExpensesByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("ListExpensesByGroup failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (a *App) updateExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID, expenseID := vars["id"], vars["expenseID"]

	var req expenseRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	group, err := a.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	if err := validateExpenseMembers(&req, group.Members); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := a.store.GetExpense(r.Context(), expenseID)
	if err != nil || existing.GroupID != groupID {
		respondWithError(w, http.StatusNotFound, "expense not found")
		return
	}

	expense := &models.Expense{
		ID:       expenseID,
		GroupID:  groupID,
		Title:    req.Title,
		Category: req.Category,
		Amount:   req.Amount,
		Payer:    req.Payer,
		Involved: req.Involved,
		Settled:  req.Settled,
		Date:     req.Date,
	}
	if expense.Date == "" {
		expense.Date = existing.Date
	}
	if expense.Category == "" {
		expense.Category = existing.Category
	}
	if err := a.store.UpdateExpense(r.Context(), expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	slog.Info("Expense updated", "group_id", groupID, "expense_id", expenseID)
	respondWithJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (a *App) deleteExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID, expenseID := vars["id"], vars["expenseID"]

	existing, err := a.store.GetExpense(r.Context(), expenseID)
	if err != nil || existing.GroupID != groupID {
		respondWithError(w, http.StatusNotFound, "expense not found")
		return
	}

	if err := a.store.DeleteExpense(r.Context(), expenseID); err != nil {
		respondWithError(w, http.StatusNotFound, "expense not found")
		return
	}
	slog.Info("Expense deleted", "group_id", groupID, "expense_id", expenseID)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// settleExpenses marks a batch of expenses as fully resolved. Settled
// expenses stop contributing to balances entirely; this is distinct from
// recording a settlement payment, which offsets computed debts.
func (a *App) settleExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req settleExpensesRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := a.store.GetGroup(r.Context(), groupID); err != nil {
		respondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	count, err := a.store.SettleExpenses(r.Context(), groupID, req.ExpenseIDs)
	if err != nil {
		slog.Error("SettleExpenses failed", "group_id", groupID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to settle expenses")
		return
	}

	slog.Info("Expenses settled", "group_id", groupID, "count", count)
	respondWithJSON(w, http.StatusOK, map[string]int{"settled": count})
}
