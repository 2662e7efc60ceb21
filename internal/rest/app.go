// Package rest exposes the SplitPay HTTP JSON API. Handlers load snapshots
// from storage, hand plain values to the ledger engine, and write the results
// back out; the engine itself never touches storage or the request.
package rest

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/middleware"
	"github.com/mmynk/splitpay/internal/rates"
	"github.com/mmynk/splitpay/internal/storage"
)

// App wires the router, storage, auth and rate source together.
type App struct {
	Router *mux.Router

	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	rates         rates.Source
	validate      *validator.Validate
}

// NewApp creates the application with all routes registered.
func NewApp(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager, rateSource rates.Source) *App {
	a := &App{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		rates:         rateSource,
		validate:      validator.New(),
	}
	a.initializeRoutes()
	return a
}

func (a *App) initializeRoutes() {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/register", a.register).Methods(http.MethodPost)
	r.HandleFunc("/login", a.login).Methods(http.MethodPost)

	// Everything under /api requires a valid token.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth(a.jwtManager, func(w http.ResponseWriter, err error) {
		respondWithError(w, http.StatusUnauthorized, err.Error())
	}))

	api.HandleFunc("/groups", a.createGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups", a.listGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", a.getGroup).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", a.updateGroup).Methods(http.MethodPut)
	api.HandleFunc("/groups/{id}", a.deleteGroup).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/members", a.addMembers).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/members/{name}", a.removeMember).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{id}/expenses", a.createExpense).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/expenses", a.listExpenses).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}/expenses/settle", a.settleExpenses).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/expenses/{expenseID}", a.updateExpense).Methods(http.MethodPut)
	api.HandleFunc("/groups/{id}/expenses/{expenseID}", a.deleteExpense).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{id}/settlements", a.createSettlement).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/settlements", a.listSettlements).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}/settlements/{settlementID}", a.deleteSettlement).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{id}/balances", a.getBalances).Methods(http.MethodGet)

	a.Router = r
}
