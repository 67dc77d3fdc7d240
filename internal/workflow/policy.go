package workflow

import (
	"fmt"

	"github.com/apptrackhq/ats/internal/store/model"
)

// Denial reasons surfaced to callers. The wording for the two category
// rules is part of the API contract.
const (
	ReasonHandledAutomatically = "technical roles are handled automatically"
	ReasonHandledManually      = "non-technical roles must be handled manually"
	ReasonAlreadyFinalized     = "application has already been finalized"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

type authority struct {
	actor    model.Role
	category model.RoleCategory
}

type transitionRule func(current, requested model.Status) Decision

// authorityTable is the actor-role x job-category matrix. Every
// (role, category) pair not present is denied outright.
var authorityTable = map[authority]transitionRule{
	{model.RoleBot, model.RoleCategoryTechnical}:      anyTransition,
	{model.RoleAdmin, model.RoleCategoryTechnical}:    shortlistDecisionOnly,
	{model.RoleAdmin, model.RoleCategoryNonTechnical}: anyTransition,
	{model.RoleBot, model.RoleCategoryNonTechnical}:   manualHandlingOnly,
}

func anyTransition(current, requested model.Status) Decision {
	return allow()
}

// shortlistDecisionOnly is the single admin window on technical
// applications: a shortlisted application may be accepted or rejected.
// Everything else on the technical track is automated.
func shortlistDecisionOnly(current, requested model.Status) Decision {
	if current == model.StatusShortlisted &&
		(requested == model.StatusAccepted || requested == model.StatusRejected) {
		return allow()
	}
	return deny(ReasonHandledAutomatically)
}

func manualHandlingOnly(current, requested model.Status) Decision {
	return deny(ReasonHandledManually)
}

// CanTransition decides whether the actor may move an application of
// the given job category from current to requested. Terminal statuses
// are absorbing for every actor; this is enforced here and not left to
// the processors' eligibility filters.
func CanTransition(actor model.Role, category model.RoleCategory, current, requested model.Status) Decision {
	if current.Terminal() {
		return deny(ReasonAlreadyFinalized)
	}
	if !requested.Known() {
		return deny(fmt.Sprintf("unknown status %q", requested))
	}

	rule, ok := authorityTable[authority{actor: actor, category: category}]
	if !ok {
		return deny(fmt.Sprintf("role %q may not change application status", actor))
	}
	return rule(current, requested)
}
