package v1alpha1

import (
	"net/http"

	api "github.com/apptrackhq/ats/api/v1alpha1"
	"github.com/apptrackhq/ats/internal/auth"
	"github.com/apptrackhq/ats/internal/service"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type WorkflowHandler struct {
	workflowSrv *service.WorkflowService
}

func NewWorkflowHandler(workflowService *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowSrv: workflowService}
}

func (h *WorkflowHandler) Routes(r chi.Router) {
	r.Post("/trigger", h.Trigger)
	r.Get("/stats", h.Stats)
	r.Post("/schedulers/{kind}/start", h.StartScheduler)
	r.Post("/schedulers/{kind}/stop", h.StopScheduler)
}

// requireOperator gates the workflow control surface to admin and bot
// actors.
func requireOperator(w http.ResponseWriter, r *http.Request) bool {
	actor := auth.MustHaveActor(r.Context())
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleBot {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "workflow control requires an admin or bot actor"})
		return false
	}
	return true
}

// (POST /api/v1alpha1/workflow/trigger)
func (h *WorkflowHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !requireOperator(w, r) {
		return
	}

	result, err := h.workflowSrv.TriggerManualWorkflow(r.Context())
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "workflow pass failed"})
		return
	}

	render.JSON(w, r, api.TriggerReply{
		Message:   result.Message,
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	})
}

// (GET /api/v1alpha1/workflow/stats)
func (h *WorkflowHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workflowSrv.WorkflowStats(r.Context())
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to compute workflow stats"})
		return
	}

	render.JSON(w, r, api.WorkflowStats{
		TotalTechnicalApplications: stats.TotalTechnicalApplications,
		StageDistribution:          stats.StageDistribution,
		IsRunning:                  stats.IsRunning,
	})
}

// (POST /api/v1alpha1/workflow/schedulers/{kind}/start)
func (h *WorkflowHandler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	if !requireOperator(w, r) {
		return
	}

	kind := service.SchedulerKind(chi.URLParam(r, "kind"))
	if err := h.workflowSrv.StartScheduler(kind); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	}

	render.JSON(w, r, struct{}{})
}

// (POST /api/v1alpha1/workflow/schedulers/{kind}/stop)
func (h *WorkflowHandler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	if !requireOperator(w, r) {
		return
	}

	kind := service.SchedulerKind(chi.URLParam(r, "kind"))
	if err := h.workflowSrv.StopScheduler(kind); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	}

	render.JSON(w, r, struct{}{})
}
