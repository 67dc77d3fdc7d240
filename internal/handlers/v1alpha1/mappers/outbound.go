package mappers

import (
	api "github.com/apptrackhq/ats/api/v1alpha1"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/thoas/go-funk"
)

func ApplicationToApi(a model.Application) api.Application {
	var stage *string
	if a.WorkflowStage != nil {
		s := string(*a.WorkflowStage)
		stage = &s
	}

	return api.Application{
		ID:            a.ID,
		JobID:         a.JobID,
		JobTitle:      a.Job.Title,
		ApplicantID:   a.ApplicantID,
		Status:        string(a.Status),
		WorkflowStage: stage,
		Notes:         NotesToApi(a.Notes),
		SubmittedAt:   a.SubmittedAt,
		LastUpdated:   a.UpdatedAt,
	}
}

func ApplicationListToApi(applications model.ApplicationList) api.ApplicationList {
	return funk.Map(applications, ApplicationToApi).([]api.Application)
}

func NotesToApi(notes model.Notes) []api.Note {
	return funk.Map(notes, func(n model.Note) api.Note {
		return api.Note{
			Text:        n.Text,
			AddedBy:     n.AddedBy,
			AddedAt:     n.AddedAt,
			ProcessedBy: n.ProcessedBy,
			ActionType:  n.ActionType,
		}
	}).([]api.Note)
}

func JobToApi(j model.Job) api.Job {
	return api.Job{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		RoleCategory: string(j.RoleCategory),
		CreatedAt:    j.CreatedAt,
	}
}

func JobListToApi(jobs model.JobList) api.JobList {
	return funk.Map(jobs, JobToApi).([]api.Job)
}
