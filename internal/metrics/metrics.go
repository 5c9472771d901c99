// Package metrics holds the prometheus collectors shared by the agent and the trainer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_games_total",
		Help: "Finished games by outcome for the first seat",
	}, []string{"outcome"})

	MovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_agent_moves_total",
		Help: "Moves chosen by learning agents, by selection mode",
	}, []string{"mode"})

	TDUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tictactoe_td_updates_total",
		Help: "Temporal-difference updates applied to the value network",
	})

	TDError = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tictactoe_td_error",
		Help:    "Difference between the TD target and the previous estimate",
		Buckets: prometheus.LinearBuckets(-1, 0.1, 21),
	})

	GameLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tictactoe_game_moves",
		Help:    "Number of moves played per game",
		Buckets: prometheus.LinearBuckets(5, 1, 5),
	})
)
