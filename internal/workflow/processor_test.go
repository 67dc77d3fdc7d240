package workflow_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/apptrackhq/ats/internal/config"
	"github.com/apptrackhq/ats/internal/events"
	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/apptrackhq/ats/internal/workflow"
)

const (
	insertJobStm         = "INSERT INTO jobs (id, title, description, role_category, created_at, updated_at) VALUES ('%s', '%s', '', '%s', '%s', '%s');"
	insertApplicationStm = "INSERT INTO applications (id, job_id, applicant_id, status, notes, submitted_at, updated_at) VALUES ('%s', '%s', '%s', '%s', '[]', '%s', '%s');"
)

func insertJob(gormdb *gorm.DB, id uuid.UUID, title string, category model.RoleCategory) {
	now := time.Now().UTC().Format(time.RFC3339)
	tx := gormdb.Exec(fmt.Sprintf(insertJobStm, id, title, category, now, now))
	Expect(tx.Error).To(BeNil())
}

func insertApplication(gormdb *gorm.DB, id, jobID uuid.UUID, status model.Status, submittedAt time.Time) {
	ts := submittedAt.UTC().Format(time.RFC3339)
	tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, jobID, uuid.NewString(), status, ts, ts))
	Expect(tx.Error).To(BeNil())
}

var _ = Describe("mimic processor", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from applications;")
		gormdb.Exec("DELETE from jobs;")
	})

	It("bootstraps a pending application to the first stage", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		emitter := newCaptureEmitter()
		// one draw to pass the skip check, one to pick the comment
		p := workflow.NewMimicProcessor(s, emitter, &scriptRand{vals: []float64{0.9, 0.0}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))
		Expect(res.Skipped).To(Equal(0))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusApplied))
		Expect(app.WorkflowStage).ToNot(BeNil())
		Expect(*app.WorkflowStage).To(Equal(model.StatusApplied))
		Expect(app.Notes).To(HaveLen(1))
		Expect(app.Notes[0].ProcessedBy).To(Equal(workflow.MimicProcessedBy))

		audits := emitter.Events()
		Expect(audits).To(HaveLen(1))
		Expect(audits[0].Action).To(Equal(events.ActionBotMimicWorkflow))
		Expect(audits[0].ResourceID).To(Equal(appID.String()))
		Expect(audits[0].Details.OldStage).To(Equal(string(model.StatusPending)))
		Expect(audits[0].Details.NewStage).To(Equal(string(model.StatusApplied)))
		Expect(audits[0].Details.JobTitle).To(Equal("backend engineer"))
	})

	It("skips an application on a draw below the skip chance", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		emitter := newCaptureEmitter()
		// the skip chance is 0.3; 0.29 skips, 0.3 does not
		p := workflow.NewMimicProcessor(s, emitter, &scriptRand{vals: []float64{0.29}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(0))
		Expect(res.Skipped).To(Equal(1))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusPending))
		Expect(app.Notes).To(BeEmpty())
		Expect(emitter.Events()).To(BeEmpty())
	})

	It("processes an application on the skip boundary draw", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		p := workflow.NewMimicProcessor(s, newCaptureEmitter(), &scriptRand{vals: []float64{0.3, 0.0}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))
	})

	It("rejects a staged application on a low draw", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusInterview, time.Now())

		emitter := newCaptureEmitter()
		// skip check, rejection check, comment
		p := workflow.NewMimicProcessor(s, emitter, &scriptRand{vals: []float64{0.9, 0.1, 0.0}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusRejected))
	})

	It("moves an offer to accepted", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusOffer, time.Now())

		p := workflow.NewMimicProcessor(s, newCaptureEmitter(), &scriptRand{vals: []float64{0.9, 0.9, 0.0}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusAccepted))
	})

	It("ignores non-technical applications", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "office manager", model.RoleCategoryNonTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		p := workflow.NewMimicProcessor(s, newCaptureEmitter(), &scriptRand{vals: []float64{0.9}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(0))
		Expect(res.Skipped).To(Equal(0))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusPending))
	})

	It("ignores finalized applications", func() {
		jobID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, uuid.New(), jobID, model.StatusAccepted, time.Now())
		insertApplication(gormdb, uuid.New(), jobID, model.StatusRejected, time.Now())

		p := workflow.NewMimicProcessor(s, newCaptureEmitter(), &scriptRand{})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(0))
		Expect(res.Skipped).To(Equal(0))
	})

	It("processes applications oldest first", func() {
		jobID := uuid.New()
		olderID := uuid.New()
		newerID := uuid.New()
		insertJob(gormdb, jobID, "backend engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, newerID, jobID, model.StatusPending, time.Now())
		insertApplication(gormdb, olderID, jobID, model.StatusPending, time.Now().Add(-time.Hour))

		emitter := newCaptureEmitter()
		p := workflow.NewMimicProcessor(s, emitter, &scriptRand{vals: []float64{0.9, 0.0, 0.9, 0.0}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(2))

		audits := emitter.Events()
		Expect(audits).To(HaveLen(2))
		Expect(audits[0].ResourceID).To(Equal(olderID.String()))
		Expect(audits[1].ResourceID).To(Equal(newerID.String()))
	})
})

var _ = Describe("automation processor", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from applications;")
		gormdb.Exec("DELETE from jobs;")
	})

	DescribeTable("maps the uniform draw onto the outcome set",
		func(draw float64, expected model.Status) {
			jobID := uuid.New()
			appID := uuid.New()
			insertJob(gormdb, jobID, "data engineer", model.RoleCategoryTechnical)
			insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

			p := workflow.NewAutomationProcessor(s, newCaptureEmitter(), &scriptRand{vals: []float64{draw}})

			res, err := p.RunPass(context.TODO())
			Expect(err).To(BeNil())
			Expect(res.Processed).To(Equal(1))

			app, err := s.Application().Get(context.TODO(), appID)
			Expect(err).To(BeNil())
			Expect(app.Status).To(Equal(expected))
		},
		Entry("first quarter", 0.0, model.StatusReviewing),
		Entry("second quarter", 0.3, model.StatusShortlisted),
		Entry("third quarter", 0.6, model.StatusRejected),
		Entry("fourth quarter", 0.9, model.StatusAccepted),
	)

	It("records the status change in the note log and audit trail", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "data engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		emitter := newCaptureEmitter()
		p := workflow.NewAutomationProcessor(s, emitter, &scriptRand{vals: []float64{0.3}})

		_, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Notes).To(HaveLen(1))
		Expect(app.Notes[0].Text).To(Equal("Status changed from pending to shortlisted by automated processing"))
		Expect(app.Notes[0].ActionType).To(Equal(events.ActionStatusChange))

		audits := emitter.Events()
		Expect(audits).To(HaveLen(1))
		Expect(audits[0].Action).To(Equal(events.ActionStatusChange))
		Expect(audits[0].Details.OldStatus).To(Equal(string(model.StatusPending)))
		Expect(audits[0].Details.NewStatus).To(Equal(string(model.StatusShortlisted)))
	})

	It("only touches pending technical applications", func() {
		technicalJob := uuid.New()
		nonTechnicalJob := uuid.New()
		insertJob(gormdb, technicalJob, "data engineer", model.RoleCategoryTechnical)
		insertJob(gormdb, nonTechnicalJob, "recruiter", model.RoleCategoryNonTechnical)

		stagedID := uuid.New()
		pendingNonTechID := uuid.New()
		insertApplication(gormdb, stagedID, technicalJob, model.StatusReviewing, time.Now())
		insertApplication(gormdb, pendingNonTechID, nonTechnicalJob, model.StatusPending, time.Now())

		p := workflow.NewAutomationProcessor(s, newCaptureEmitter(), &scriptRand{})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(0))

		app, err := s.Application().Get(context.TODO(), stagedID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusReviewing))

		app, err = s.Application().Get(context.TODO(), pendingNonTechID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusPending))
	})

	It("leaves already-resolved applications untouched on repeated passes", func() {
		jobID := uuid.New()
		appID := uuid.New()
		insertJob(gormdb, jobID, "data engineer", model.RoleCategoryTechnical)
		insertApplication(gormdb, appID, jobID, model.StatusPending, time.Now())

		p := workflow.NewAutomationProcessor(s, newCaptureEmitter(), &scriptRand{vals: []float64{0.9}})

		res, err := p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))

		res, err = p.RunPass(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(0))

		app, err := s.Application().Get(context.TODO(), appID)
		Expect(err).To(BeNil())
		Expect(app.Status).To(Equal(model.StatusAccepted))
		Expect(app.Notes).To(HaveLen(1))
	})
})
