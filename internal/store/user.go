package store

import (
	"context"
	"errors"

	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User interface {
	List(ctx context.Context) (model.UserList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	InitialMigration() error
}

type UserStore struct {
	db *gorm.DB
}

// Make sure we conform to User interface
var _ User = (*UserStore)(nil)

func NewUserStore(db *gorm.DB) User {
	return &UserStore{db: db}
}

func (s *UserStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.User{})
}

func (s *UserStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *UserStore) List(ctx context.Context) (model.UserList, error) {
	var users model.UserList
	if err := s.getDB(ctx).Model(&model.User{}).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := model.User{ID: id}
	if err := s.getDB(ctx).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := s.getDB(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &user, nil
}
