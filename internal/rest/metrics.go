package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	expensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitpay_expenses_created_total",
		Help: "Number of expenses recorded.",
	})

	settlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitpay_settlements_recorded_total",
		Help: "Number of settlement payments recorded.",
	})
)
