package store

import (
	"context"
	"errors"

	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Application interface {
	List(ctx context.Context, filter *ApplicationQueryFilter, opts ...*ApplicationQueryOptions) (model.ApplicationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, application model.Application) (*model.Application, error)
	Update(ctx context.Context, application *model.Application) (*model.Application, error)
	InitialMigration() error
}

type ApplicationStore struct {
	db *gorm.DB
}

// Make sure we conform to Application interface
var _ Application = (*ApplicationStore)(nil)

func NewApplicationStore(db *gorm.DB) Application {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Application{})
}

func (s *ApplicationStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *ApplicationStore) List(ctx context.Context, filter *ApplicationQueryFilter, opts ...*ApplicationQueryOptions) (model.ApplicationList, error) {
	var applications model.ApplicationList

	tx := s.getDB(ctx).Model(&model.Application{}).Preload("Job")
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	for _, opt := range opts {
		for _, fn := range opt.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application := model.Application{ID: id}
	if err := s.getDB(ctx).Preload("Job").First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (s *ApplicationStore) Create(ctx context.Context, application model.Application) (*model.Application, error) {
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	if err := s.getDB(ctx).Create(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &application, nil
}

// Update persists the application as a whole. gorm refreshes
// updated_at on save, which is the record's lastUpdated timestamp.
func (s *ApplicationStore) Update(ctx context.Context, application *model.Application) (*model.Application, error) {
	result := s.getDB(ctx).Omit("Job").Save(application)
	if result.Error != nil {
		return nil, result.Error
	}
	return application, nil
}
