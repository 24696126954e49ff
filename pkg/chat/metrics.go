package chat

import "github.com/zeromicro/go-zero/core/metric"

const metricNamespace = "stockchat"

var (
	metricReplies = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: metricNamespace,
		Subsystem: "chat",
		Name:      "replies_total",
		Help:      "chat replies by outcome",
		Labels:    []string{"outcome"},
	})
	metricLLMDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: metricNamespace,
		Subsystem: "llm",
		Name:      "duration_ms",
		Help:      "language model call latency in milliseconds",
		Labels:    []string{"result"},
		Buckets:   []float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})
	metricFetchDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: metricNamespace,
		Subsystem: "market",
		Name:      "fetch_duration_ms",
		Help:      "market data fetch latency in milliseconds",
		Labels:    []string{"result"},
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 15000},
	})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
