package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // prometheus collectors are package singletons
var (
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fw_trader",
		Name:      "purchases_total",
		Help:      "Purchase attempts by result.",
	}, []string{"result"})

	SpentGoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fw_trader",
		Name:      "spent_gold_total",
		Help:      "Gold spent on purchases.",
	})

	ProfitGoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fw_trader",
		Name:      "profit_gold_total",
		Help:      "Expected resale margin accumulated over purchases.",
	})

	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fw_trader",
		Name:      "sweeps_total",
		Help:      "Completed full-category analyze sweeps.",
	})

	CurrentPhase = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fw_trader",
		Name:      "phase",
		Help:      "Current trading phase, 1 for the active one.",
	}, []string{"phase"})

	ProblemFlag = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fw_trader",
		Name:      "problem",
		Help:      "1 while the trader is halted on a structural error.",
	})
)
