package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ats = "ats"

	// Labels
	processorLabel = "processor"
	stageLabel     = "stage"
)

var passesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: ats + "_workflow_passes_total",
		Help: "Number of processing passes partitioned by processor.",
	}, []string{processorLabel})

var transitionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: ats + "_workflow_transitions_total",
		Help: "Number of status transitions partitioned by processor and resulting stage.",
	}, []string{processorLabel, stageLabel})

func init() {
	prometheus.MustRegister(passesTotal, transitionsTotal)
}

func IncWorkflowPass(processor string) {
	passesTotal.WithLabelValues(processor).Inc()
}

func IncWorkflowTransition(processor, stage string) {
	transitionsTotal.WithLabelValues(processor, stage).Inc()
}
