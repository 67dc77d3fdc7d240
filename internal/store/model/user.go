package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of actor roles known to the workflow.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleAdmin     Role = "admin"
	RoleBot       Role = "bot"
)

func (r Role) Known() bool {
	return r == RoleApplicant || r == RoleAdmin || r == RoleBot
}

type User struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Role      Role      `gorm:"type:varchar(16);not null;default:applicant"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserList []User
