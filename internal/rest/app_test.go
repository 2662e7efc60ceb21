package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/rates"
	"github.com/mmynk/splitpay/internal/storage/sqlite"
)

// setupTestServer starts the app against a temp SQLite database with a fixed
// rate source, registers a user and returns their token.
func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitpay-rest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	app := NewApp(store, auth.NewPasswordAuthenticator(store), jwtManager, rates.Fixed{"EUR/USD": 1.1})

	server := httptest.NewServer(app.Router)
	t.Cleanup(server.Close)

	var resp authResponse
	status := doJSON(t, http.MethodPost, server.URL+"/register", "", map[string]string{
		"email":        "alice@example.com",
		"display_name": "Alice",
		"password":     "password123",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", status)
	}
	if resp.Token == "" {
		t.Fatal("expected a token from register")
	}

	return server, resp.Token
}

// doJSON sends a JSON request and decodes the JSON response into out (when
// out is non-nil), returning the status code.
func doJSON(t *testing.T, method, url, token string, body, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func createGroup(t *testing.T, server *httptest.Server, token string, members ...string) groupResponse {
	t.Helper()
	var group groupResponse
	status := doJSON(t, http.MethodPost, server.URL+"/api/groups", token, map[string]interface{}{
		"name":    "Trip",
		"members": members,
	}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group status = %d, want 201", status)
	}
	return group
}

func addExpense(t *testing.T, server *httptest.Server, token, groupID string, body map[string]interface{}) expenseResponse {
	t.Helper()
	var expense expenseResponse
	status := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/groups/%s/expenses", server.URL, groupID), token, body, &expense)
	if status != http.StatusCreated {
		t.Fatalf("create expense status = %d, want 201", status)
	}
	return expense
}

func getBalances(t *testing.T, server *httptest.Server, token, groupID string) balancesResponse {
	t.Helper()
	var balances balancesResponse
	status := doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/groups/%s/balances", server.URL, groupID), token, nil, &balances)
	if status != http.StatusOK {
		t.Fatalf("get balances status = %d, want 200", status)
	}
	return balances
}

func TestAuthFlow(t *testing.T) {
	server, token := setupTestServer(t)

	t.Run("duplicate email rejected", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, server.URL+"/register", "", map[string]string{
			"email":        "alice@example.com",
			"display_name": "Alice II",
			"password":     "password123",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("status = %d, want 409", status)
		}
	})

	t.Run("login with wrong password rejected", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, server.URL+"/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("login returns token", func(t *testing.T) {
		var resp authResponse
		status := doJSON(t, http.MethodPost, server.URL+"/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		}, &resp)
		if status != http.StatusOK || resp.Token == "" {
			t.Errorf("status = %d, token = %q; want 200 with token", status, resp.Token)
		}
	})

	t.Run("api requires auth", func(t *testing.T) {
		if status := doJSON(t, http.MethodGet, server.URL+"/api/groups", "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("api accepts valid token", func(t *testing.T) {
		if status := doJSON(t, http.MethodGet, server.URL+"/api/groups", token, nil, nil); status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})
}

func TestGroupEndpoints(t *testing.T) {
	server, token := setupTestServer(t)

	group := createGroup(t, server, token, "Alice", "Bob", "Charlie")
	if group.Currency != "USD" {
		t.Errorf("currency = %s, want USD default", group.Currency)
	}
	if len(group.Members) != 3 {
		t.Errorf("members = %v, want 3", group.Members)
	}

	t.Run("get group", func(t *testing.T) {
		var got groupResponse
		status := doJSON(t, http.MethodGet, server.URL+"/api/groups/"+group.ID, token, nil, &got)
		if status != http.StatusOK || got.ID != group.ID {
			t.Errorf("status = %d, id = %s; want 200, %s", status, got.ID, group.ID)
		}
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/nope", token, nil, nil); status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("add members ignores duplicates", func(t *testing.T) {
		var got groupResponse
		status := doJSON(t, http.MethodPost, server.URL+"/api/groups/"+group.ID+"/members", token,
			map[string]interface{}{"members": []string{"Charlie", "Diana"}}, &got)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(got.Members) != 4 {
			t.Errorf("members = %v, want 4", got.Members)
		}
	})

	t.Run("remove member", func(t *testing.T) {
		status := doJSON(t, http.MethodDelete, server.URL+"/api/groups/"+group.ID+"/members/Diana", token, nil, nil)
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})

	t.Run("cannot remove the last member", func(t *testing.T) {
		solo := createGroup(t, server, token, "Alice")
		status := doJSON(t, http.MethodDelete, server.URL+"/api/groups/"+solo.ID+"/members/Alice", token, nil, nil)
		if status != http.StatusConflict {
			t.Errorf("status = %d, want 409", status)
		}
	})
}

func TestExpenseEndpoints(t *testing.T) {
	server, token := setupTestServer(t)
	group := createGroup(t, server, token, "Alice", "Bob", "Charlie")

	t.Run("negative amount rejected at the boundary", func(t *testing.T) {
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/expenses", server.URL, group.ID), token,
			map[string]interface{}{"title": "Refund?", "amount": -10.0, "payer": "Alice"}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("unknown payer rejected", func(t *testing.T) {
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/expenses", server.URL, group.ID), token,
			map[string]interface{}{"title": "Dinner", "amount": 30.0, "payer": "Mallory"}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	expense := addExpense(t, server, token, group.ID, map[string]interface{}{
		"title":    "Groceries",
		"category": "Food",
		"amount":   90.0,
		"payer":    "Alice",
	})
	if len(expense.Involved) != 3 {
		t.Errorf("involved = %v, want defaulted to all 3 members", expense.Involved)
	}

	t.Run("update expense", func(t *testing.T) {
		var updated expenseResponse
		status := doJSON(t, http.MethodPut,
			fmt.Sprintf("%s/api/groups/%s/expenses/%s", server.URL, group.ID, expense.ID), token,
			map[string]interface{}{
				"title":    "Groceries",
				"amount":   60.0,
				"payer":    "Alice",
				"involved": []string{"Alice", "Bob"},
			}, &updated)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if updated.Amount != 60 || len(updated.Involved) != 2 {
			t.Errorf("updated = %+v, want amount 60 with 2 involved", updated)
		}
	})

	t.Run("batch settle", func(t *testing.T) {
		second := addExpense(t, server, token, group.ID, map[string]interface{}{
			"title":  "Taxi",
			"amount": 30.0,
			"payer":  "Bob",
		})

		var result map[string]int
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/expenses/settle", server.URL, group.ID), token,
			map[string]interface{}{"expense_ids": []string{expense.ID, second.ID}}, &result)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if result["settled"] != 2 {
			t.Errorf("settled = %d, want 2", result["settled"])
		}

		balances := getBalances(t, server, token, group.ID)
		if len(balances.Debts) != 0 {
			t.Errorf("debts after settling everything = %v, want none", balances.Debts)
		}
	})

	t.Run("delete expense", func(t *testing.T) {
		status := doJSON(t, http.MethodDelete,
			fmt.Sprintf("%s/api/groups/%s/expenses/%s", server.URL, group.ID, expense.ID), token, nil, nil)
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}
	})
}

func TestBalancesEndpoint(t *testing.T) {
	server, token := setupTestServer(t)
	group := createGroup(t, server, token, "Alice", "Bob", "Charlie")

	addExpense(t, server, token, group.ID, map[string]interface{}{
		"title":    "Hotel",
		"category": "Travel",
		"amount":   90.0,
		"payer":    "Alice",
		"involved": []string{"Alice", "Bob", "Charlie"},
	})

	balances := getBalances(t, server, token, group.ID)

	if math.Abs(balances.Balances["Alice"]-60) > 0.01 {
		t.Errorf("Alice balance = %v, want 60", balances.Balances["Alice"])
	}
	if len(balances.Debts) != 2 {
		t.Fatalf("debts = %v, want 2", balances.Debts)
	}
	for _, d := range balances.Debts {
		if d.Creditor != "Alice" || math.Abs(d.Amount-30) > 0.01 {
			t.Errorf("debt = %+v, want 30 owed to Alice", d)
		}
	}
	if math.Abs(balances.Summary.TotalUnsettled-90) > 0.01 {
		t.Errorf("total unsettled = %v, want 90", balances.Summary.TotalUnsettled)
	}
	if math.Abs(balances.Summary.ByCategory["Travel"]-90) > 0.01 {
		t.Errorf("by category = %v, want Travel 90", balances.Summary.ByCategory)
	}
}

func TestSettlementEndpoints(t *testing.T) {
	server, token := setupTestServer(t)
	group := createGroup(t, server, token, "Alice", "Bob")

	addExpense(t, server, token, group.ID, map[string]interface{}{
		"title":  "Dinner",
		"amount": 100.0,
		"payer":  "Alice",
	})
	addExpense(t, server, token, group.ID, map[string]interface{}{
		"title":  "Taxi",
		"amount": 40.0,
		"payer":  "Bob",
	})

	before := getBalances(t, server, token, group.ID)
	if len(before.Debts) != 1 || before.Debts[0].Debtor != "Bob" || math.Abs(before.Debts[0].Amount-30) > 0.01 {
		t.Fatalf("debts before settlement = %v, want Bob owes Alice 30", before.Debts)
	}

	t.Run("settlement between non-members rejected", func(t *testing.T) {
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/settlements", server.URL, group.ID), token,
			map[string]interface{}{"from_user": "Mallory", "to_user": "Alice", "amount": 30.0}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	var settlement settlementResponse
	status := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/groups/%s/settlements", server.URL, group.ID), token,
		map[string]interface{}{
			"from_user": "Bob",
			"to_user":   "Alice",
			"amount":    30.0,
			"notes":     "paid in cash",
		}, &settlement)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}

	after := getBalances(t, server, token, group.ID)
	if len(after.Debts) != 0 {
		t.Errorf("debts after settlement = %v, want none", after.Debts)
	}

	t.Run("foreign currency converted via rate source", func(t *testing.T) {
		var converted settlementResponse
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/settlements", server.URL, group.ID), token,
			map[string]interface{}{
				"from_user":         "Bob",
				"to_user":           "Alice",
				"original_amount":   25.0,
				"original_currency": "EUR",
			}, &converted)
		if status != http.StatusCreated {
			t.Fatalf("status = %d, want 201", status)
		}
		if math.Abs(converted.Amount-27.5) > 1e-9 {
			t.Errorf("amount = %v, want 27.5 (25 EUR at 1.1)", converted.Amount)
		}
		if converted.ExchangeRate != 1.1 || converted.OriginalCurrency != "EUR" {
			t.Errorf("conversion fields = %+v, want rate 1.1 EUR", converted)
		}
	})

	t.Run("unknown rate pair is a bad gateway", func(t *testing.T) {
		status := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/groups/%s/settlements", server.URL, group.ID), token,
			map[string]interface{}{
				"from_user":         "Bob",
				"to_user":           "Alice",
				"original_amount":   10.0,
				"original_currency": "GBP",
			}, nil)
		if status != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", status)
		}
	})

	t.Run("list and delete settlements", func(t *testing.T) {
		var settlements []settlementResponse
		status := doJSON(t, http.MethodGet,
			fmt.Sprintf("%s/api/groups/%s/settlements", server.URL, group.ID), token, nil, &settlements)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(settlements) != 2 {
			t.Fatalf("settlements = %d, want 2", len(settlements))
		}

		status = doJSON(t, http.MethodDelete,
			fmt.Sprintf("%s/api/groups/%s/settlements/%s", server.URL, group.ID, settlement.ID), token, nil, nil)
		if status != http.StatusOK {
			t.Errorf("delete status = %d, want 200", status)
		}
	})
}
