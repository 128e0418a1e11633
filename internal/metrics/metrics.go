package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	friendMetricsOnce sync.Once

	friendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend request attempts",
		},
		[]string{"status"},
	)

	friendAcceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_accepts_total",
			Help: "Total number of friend request accept attempts",
		},
		[]string{"status"},
	)

	friendCancelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_cancels_total",
			Help: "Total number of friend request cancel attempts",
		},
		[]string{"status"},
	)

	friendUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_updates_total",
			Help: "Total number of friend request flag update attempts",
		},
		[]string{"status"},
	)
)

func RegisterFriendMetrics() {
	friendMetricsOnce.Do(func() {
		prometheus.MustRegister(friendRequestsTotal, friendAcceptsTotal, friendCancelsTotal, friendUpdatesTotal)
	})
}

func IncFriendRequest(status string) {
	RegisterFriendMetrics()
	friendRequestsTotal.WithLabelValues(status).Inc()
}

func IncFriendAccept(status string) {
	RegisterFriendMetrics()
	friendAcceptsTotal.WithLabelValues(status).Inc()
}

func IncFriendCancel(status string) {
	RegisterFriendMetrics()
	friendCancelsTotal.WithLabelValues(status).Inc()
}

func IncFriendUpdate(status string) {
	RegisterFriendMetrics()
	friendUpdatesTotal.WithLabelValues(status).Inc()
}
