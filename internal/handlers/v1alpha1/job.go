package v1alpha1

import (
	"errors"
	"net/http"

	api "github.com/apptrackhq/ats/api/v1alpha1"
	"github.com/apptrackhq/ats/internal/handlers/v1alpha1/mappers"
	"github.com/apptrackhq/ats/internal/handlers/validator"
	"github.com/apptrackhq/ats/internal/service"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type JobHandler struct {
	jobSrv *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobSrv: jobService}
}

func (h *JobHandler) Routes(r chi.Router) {
	r.Get("/", h.ListJobs)
	r.Post("/", h.CreateJob)
	r.Get("/{id}", h.GetJob)
	r.Delete("/{id}", h.DeleteJob)
}

// (GET /api/v1alpha1/jobs)
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	category := model.RoleCategory(r.URL.Query().Get("roleCategory"))

	jobs, err := h.jobSrv.ListJobs(r.Context(), category)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to list jobs"})
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (POST /api/v1alpha1/jobs)
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var form api.JobCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "malformed request body"})
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), service.JobCreateForm{
		Title:        form.Title,
		Description:  form.Description,
		RoleCategory: form.RoleCategory,
	})
	if err != nil {
		var invalid *service.ErrInvalidRoleCategory
		if errors.As(err, &invalid) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, api.Error{Message: err.Error()})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to create job"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1alpha1/jobs/{id})
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, api.Error{Message: err.Error()})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to get job"})
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (DELETE /api/v1alpha1/jobs/{id})
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	if err := h.jobSrv.DeleteJob(r.Context(), id); err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to delete job"})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, struct{}{})
}
