package store

import (
	"context"

	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Application() Application
	Job() Job
	User() User
	Statistics(ctx context.Context) (model.WorkflowStats, error)
	InitialMigration() error
	Seed() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	application Application
	job         Job
	user        User
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		application: NewApplicationStore(db),
		job:         NewJobStore(db),
		user:        NewUserStore(db),
		db:          db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Application() Application {
	return s.application
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) InitialMigration() error {
	if err := s.job.InitialMigration(); err != nil {
		return err
	}
	if err := s.user.InitialMigration(); err != nil {
		return err
	}
	return s.application.InitialMigration()
}

// Statistics summarizes the technical-track application population for
// the workflow stats endpoint and the prometheus collector.
func (s *DataStore) Statistics(ctx context.Context) (model.WorkflowStats, error) {
	applications, err := s.Application().List(ctx,
		NewApplicationQueryFilter().ByJobCategory(model.RoleCategoryTechnical))
	if err != nil {
		return model.WorkflowStats{}, err
	}
	return model.NewWorkflowStats(applications), nil
}

// Seed creates the built-in automation actors so the bot processors
// always have a user record to attribute transitions to.
func (s *DataStore) Seed() error {
	bots := []model.User{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Bot Automation", Email: "bot-automation@ats.local", Role: model.RoleBot},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Bot Mimic", Email: "bot-mimic@ats.local", Role: model.RoleBot},
	}

	for _, bot := range bots {
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&bot).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
