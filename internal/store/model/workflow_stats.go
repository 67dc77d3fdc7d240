package model

// WorkflowStats summarizes the technical-track application population.
// StageDistribution is keyed by the raw status value, so it covers both
// the coarse statuses and the mimic stage-valued statuses.
type WorkflowStats struct {
	TotalTechnicalApplications int
	StageDistribution          map[string]int
}

func NewWorkflowStats(applications ApplicationList) WorkflowStats {
	distribution := make(map[string]int)
	for _, app := range applications {
		distribution[string(app.Status)]++
	}

	return WorkflowStats{
		TotalTechnicalApplications: len(applications),
		StageDistribution:          distribution,
	}
}
