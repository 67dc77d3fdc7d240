package service

import (
	"context"
	"fmt"

	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/workflow"
)

type SchedulerKind string

const (
	SchedulerAutomation SchedulerKind = "automation"
	SchedulerMimic      SchedulerKind = "mimic"
)

// WorkflowStats is the stats endpoint payload.
type WorkflowStats struct {
	TotalTechnicalApplications int            `json:"totalTechnicalApplications"`
	StageDistribution          map[string]int `json:"stageDistribution"`
	IsRunning                  bool           `json:"isRunning"`
}

// TriggerResult summarizes a manual pass. Per-application failures are
// not surfaced; the caller gets counters only.
type TriggerResult struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

type WorkflowService struct {
	store      store.Store
	automation *workflow.Scheduler
	mimic      *workflow.Scheduler
}

func NewWorkflowService(s store.Store, automation, mimic *workflow.Scheduler) *WorkflowService {
	return &WorkflowService{store: s, automation: automation, mimic: mimic}
}

// TriggerManualWorkflow runs one mimic pass synchronously, outside the
// timers but through the same dispatcher.
func (s *WorkflowService) TriggerManualWorkflow(ctx context.Context) (TriggerResult, error) {
	res, err := s.mimic.Trigger(ctx)
	if err != nil {
		return TriggerResult{}, err
	}
	return TriggerResult{
		Message:   fmt.Sprintf("workflow pass completed: %d processed, %d skipped", res.Processed, res.Skipped),
		Processed: res.Processed,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
	}, nil
}

func (s *WorkflowService) WorkflowStats(ctx context.Context) (WorkflowStats, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return WorkflowStats{}, err
	}
	return WorkflowStats{
		TotalTechnicalApplications: stats.TotalTechnicalApplications,
		StageDistribution:          stats.StageDistribution,
		IsRunning:                  s.mimic.Running(),
	}, nil
}

func (s *WorkflowService) scheduler(kind SchedulerKind) (*workflow.Scheduler, error) {
	switch kind {
	case SchedulerAutomation:
		return s.automation, nil
	case SchedulerMimic:
		return s.mimic, nil
	default:
		return nil, NewErrUnknownScheduler(string(kind))
	}
}

func (s *WorkflowService) StartScheduler(kind SchedulerKind) error {
	sched, err := s.scheduler(kind)
	if err != nil {
		return err
	}
	sched.Start()
	return nil
}

func (s *WorkflowService) StopScheduler(kind SchedulerKind) error {
	sched, err := s.scheduler(kind)
	if err != nil {
		return err
	}
	sched.Stop()
	return nil
}

func (s *WorkflowService) StartAll() {
	s.automation.Start()
	s.mimic.Start()
}

func (s *WorkflowService) StopAll() {
	s.automation.Stop()
	s.mimic.Stop()
}
