package v1alpha1

import (
	"errors"
	"net/http"

	api "github.com/apptrackhq/ats/api/v1alpha1"
	"github.com/apptrackhq/ats/internal/auth"
	"github.com/apptrackhq/ats/internal/handlers/v1alpha1/mappers"
	"github.com/apptrackhq/ats/internal/handlers/validator"
	"github.com/apptrackhq/ats/internal/service"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	applicationSrv *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationSrv: applicationService}
}

func (h *ApplicationHandler) Routes(r chi.Router) {
	r.Get("/", h.ListApplications)
	r.Post("/", h.CreateApplication)
	r.Get("/{id}", h.GetApplication)
	r.Put("/{id}/status", h.UpdateStatus)
}

// (GET /api/v1alpha1/applications)
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	filter := &service.ApplicationFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Statuses = []model.Status{model.Status(status)}
	}
	if category := r.URL.Query().Get("roleCategory"); category != "" {
		filter.Category = model.RoleCategory(category)
	}

	actor := auth.MustHaveActor(r.Context())
	if actor.Role == model.RoleApplicant {
		// applicants only see their own applications
		if id, err := uuid.Parse(actor.ID); err == nil {
			filter.ApplicantID = id
		}
	}

	applications, err := h.applicationSrv.ListApplications(r.Context(), filter)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to list applications"})
		return
	}

	render.JSON(w, r, mappers.ApplicationListToApi(applications))
}

// (POST /api/v1alpha1/applications)
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var form api.ApplicationCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "malformed request body"})
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewApplicationValidationRules()...)
	if err := v.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	}

	application, err := h.applicationSrv.SubmitApplication(r.Context(), service.SubmitForm{
		JobID:       form.JobID,
		ApplicantID: form.ApplicantID,
	})
	if err != nil {
		switch {
		case isNotFound(err):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, api.Error{Message: err.Error()})
		case isDuplicate(err):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, api.Error{Message: err.Error()})
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, api.Error{Message: "failed to create application"})
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.ApplicationToApi(*application))
}

// (GET /api/v1alpha1/applications/{id})
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid application id"})
		return
	}

	application, err := h.applicationSrv.GetApplication(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, api.Error{Message: err.Error()})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "failed to get application"})
		return
	}

	render.JSON(w, r, mappers.ApplicationToApi(*application))
}

// (PUT /api/v1alpha1/applications/{id}/status)
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid application id"})
		return
	}

	var form api.StatusUpdate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "malformed request body"})
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewApplicationValidationRules()...)
	if err := v.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	}

	actor := auth.MustHaveActor(r.Context())

	application, err := h.applicationSrv.UpdateStatus(r.Context(), id, actor.Role, model.Status(form.Status), form.Comment)
	if err != nil {
		var denied *service.ErrPolicyDenied
		switch {
		case errors.As(err, &denied):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, api.Error{Message: denied.Reason})
		case isNotFound(err):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, api.Error{Message: err.Error()})
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, api.Error{Message: "failed to update status"})
		}
		return
	}

	render.JSON(w, r, mappers.ApplicationToApi(*application))
}

func isNotFound(err error) bool {
	var notFound *service.ErrResourceNotFound
	return errors.As(err, &notFound)
}

func isDuplicate(err error) bool {
	var duplicate *service.ErrDuplicateApplication
	return errors.As(err, &duplicate)
}
