package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RoleCategory partitions jobs between automated and manual status
// handling. Technical jobs are processed by the bot processors,
// non-technical jobs by admins.
type RoleCategory string

const (
	RoleCategoryTechnical    RoleCategory = "technical"
	RoleCategoryNonTechnical RoleCategory = "non-technical"
)

func (c RoleCategory) Known() bool {
	return c == RoleCategoryTechnical || c == RoleCategoryNonTechnical
}

type Job struct {
	ID           uuid.UUID    `gorm:"primaryKey"`
	Title        string       `gorm:"not null"`
	Description  string
	RoleCategory RoleCategory `gorm:"type:varchar(32);index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
