package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	messagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_messages_processed_total",
			Help: "Inbound messages applied to user records, by channel eligibility.",
		},
		[]string{"eligible"},
	)

	bufferAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "economy_buffer_awarded_total",
			Help: "Sum of buffer granted across all messages.",
		},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_purchases_total",
			Help: "Purchase attempts by type and outcome (ok|denied|error).",
		},
		[]string{"type", "outcome"},
	)

	rankChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_rank_changes_total",
			Help: "User class transitions observed on activity updates.",
		},
		[]string{"from", "to"},
	)

	modActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Moderation actions taken, by action.",
		},
		[]string{"action"},
	)
)

// Register installs every collector in the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			messagesProcessed,
			bufferAwarded,
			purchases,
			rankChanges,
			modActions,
		)
	})
}

func ObserveActivity(accrual float64, eligible bool) {
	label := "false"
	if eligible {
		label = "true"
	}
	messagesProcessed.WithLabelValues(label).Inc()
	if accrual > 0 {
		bufferAwarded.Add(accrual)
	}
}

func IncPurchase(purchaseType, outcome string) {
	purchases.WithLabelValues(purchaseType, outcome).Inc()
}

func IncRankChange(from, to string) {
	rankChanges.WithLabelValues(from, to).Inc()
}

func IncModAction(action string) {
	modActions.WithLabelValues(action).Inc()
}
