package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BidsPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrilink_bids_placed_total",
		Help: "Total number of auction bids placed",
	})

	BidsEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrilink_bids_evicted_total",
		Help: "Total number of bids dropped below the top-5 cutoff",
	})

	OffersProposedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrilink_offers_proposed_total",
		Help: "Total number of negotiation offers proposed",
	})

	OffersRespondedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrilink_offers_responded_total",
		Help: "Total number of negotiation offer responses",
	}, []string{"action"})

	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrilink_chat_messages_sent_total",
		Help: "Total number of chat messages sent",
	})

	TransactionsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrilink_transactions_created_total",
		Help: "Total number of transactions created",
	}, []string{"type"})

	DisputesRaisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrilink_disputes_raised_total",
		Help: "Total number of transaction disputes raised",
	})

	SaveConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrilink_save_conflicts_total",
		Help: "Total number of optimistic-concurrency save conflicts",
	}, []string{"collection"})
)
