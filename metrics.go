package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricRoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizbox_rooms_created_total",
		Help: "Number of rooms created.",
	})
	metricGamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizbox_games_started_total",
		Help: "Number of games started.",
	})
	metricPlayersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizbox_players_registered_total",
		Help: "Number of successful player registrations.",
	})
	metricAnswersAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizbox_answers_accepted_total",
		Help: "Number of answers recorded.",
	})
)

func registerMetrics(cfg *Config, rm *RoomManager, mux *httprouter.Router) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "quizbox_rooms_active",
		Help: "Rooms currently held by the registry.",
	}, func() float64 {
		rooms, _ := rm.Counts()
		return float64(rooms)
	}))

	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "quizbox_connections_active",
		Help: "WebSocket connections currently open.",
	}, func() float64 {
		_, clients := rm.Counts()
		return float64(clients)
	}))

	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
