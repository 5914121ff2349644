package relay

import "github.com/prometheus/client_golang/prometheus"

const (
	resultProduced = "produced"
	resultFailed   = "failed"
)

type metrics struct {
	messages  *prometheus.CounterVec
	batchSize prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Outbox messages handed to Kafka, by topic and result.",
		}, []string{"topic", "result"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "relay",
			Name:      "batch_size",
			Help:      "Number of outbox messages picked up per poll.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.messages, m.batchSize)
	return m
}
