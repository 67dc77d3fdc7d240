package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrApplicationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "application")
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

// ErrPolicyDenied is a rejection, not a fault: the actor lacks
// authority for the requested transition.
type ErrPolicyDenied struct {
	error
	Reason string
}

func NewErrPolicyDenied(reason string) *ErrPolicyDenied {
	return &ErrPolicyDenied{
		error:  fmt.Errorf("status change denied: %s", reason),
		Reason: reason,
	}
}

type ErrDuplicateApplication struct {
	error
}

func NewErrDuplicateApplication(applicantID, jobID uuid.UUID) *ErrDuplicateApplication {
	return &ErrDuplicateApplication{fmt.Errorf("applicant %s has already applied to job %s", applicantID, jobID)}
}

type ErrInvalidRoleCategory struct {
	error
}

func NewErrInvalidRoleCategory(category string) *ErrInvalidRoleCategory {
	return &ErrInvalidRoleCategory{fmt.Errorf("unknown role category %q", category)}
}

type ErrUnknownScheduler struct {
	error
}

func NewErrUnknownScheduler(kind string) *ErrUnknownScheduler {
	return &ErrUnknownScheduler{fmt.Errorf("unknown scheduler %q", kind)}
}
