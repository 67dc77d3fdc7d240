package metrics

import (
	"context"
	"fmt"

	"github.com/apptrackhq/ats/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// workflowStatsCollector exposes the technical-track application
// population on every scrape, straight from the store.
type workflowStatsCollector struct {
	store             store.Store
	totalApplications *prometheus.Desc
	totalByStage      *prometheus.Desc
}

func newWorkflowStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_workflow_%s", ats, name)
	}

	return &workflowStatsCollector{
		store: s,
		totalApplications: prometheus.NewDesc(
			fqName("technical_applications_total"),
			"Total number of technical-track applications.",
			nil,
			prometheus.Labels{},
		),
		totalByStage: prometheus.NewDesc(
			fqName("applications_by_stage_total"),
			"Technical-track applications partitioned by workflow stage.",
			[]string{stageLabel},
			prometheus.Labels{},
		),
	}
}

func (c *workflowStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalApplications
	ch <- c.totalByStage
}

func (c *workflowStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.TODO())
	if err != nil {
		zap.S().Named("metrics").Errorw("failed to collect workflow statistics", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalApplications, prometheus.GaugeValue, float64(stats.TotalTechnicalApplications))
	for stage, count := range stats.StageDistribution {
		ch <- prometheus.MustNewConstMetric(c.totalByStage, prometheus.GaugeValue, float64(count), stage)
	}
}

// RegisterWorkflowStatsCollector wires the store-backed collector into
// the default registry.
func RegisterWorkflowStatsCollector(s store.Store) {
	prometheus.MustRegister(newWorkflowStatsCollector(s))
}
