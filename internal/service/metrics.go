package service

import "github.com/prometheus/client_golang/prometheus"

var (
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketplace_transitions_total", Help: "Item status transitions by kind and outcome"},
		[]string{"kind", "outcome"},
	)
	ratingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketplace_ratings_total", Help: "Rating attempts by outcome"},
		[]string{"outcome"},
	)
)

func init() { prometheus.MustRegister(transitionsTotal, ratingsTotal) }

// outcome labels a finished operation for the counters above.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if KindOf(err) != 0 {
		return "rejected"
	}
	return "error"
}
