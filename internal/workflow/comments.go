package workflow

import "github.com/apptrackhq/ats/internal/store/model"

// stageComments are the canned reviewer notes the mimic processor
// attaches on each transition, keyed by the stage being entered.
var stageComments = map[model.Status][]string{
	model.StatusApplied: {
		"Application received and queued for review.",
		"Profile looks relevant, moving into the review queue.",
		"Acknowledged the application, review to follow.",
	},
	model.StatusReviewed: {
		"Resume reviewed, experience matches the role requirements.",
		"Screening complete, candidate cleared for the next round.",
		"Background and skills check out on paper.",
		"Reviewed the application, worth a conversation.",
	},
	model.StatusInterview: {
		"Interview scheduled with the hiring panel.",
		"Candidate invited to a technical interview.",
		"Moving to the interview stage, availability confirmed.",
	},
	model.StatusOffer: {
		"Interview feedback positive, preparing an offer.",
		"Panel recommends extending an offer.",
		"Offer package under preparation for the candidate.",
	},
	model.StatusAccepted: {
		"Offer accepted, onboarding to begin shortly.",
		"Candidate confirmed acceptance of the offer.",
		"Hire completed, closing out the application.",
	},
	model.StatusRejected: {
		"Not a fit for this role at this time.",
		"Proceeding with other candidates for this position.",
		"Profile does not match the current requirements.",
		"Application closed after review.",
	},
}

func stageComment(stage model.Status, r Rand) string {
	pool := stageComments[stage]
	if len(pool) == 0 {
		return ""
	}
	idx := int(r.Float64() * float64(len(pool)))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx]
}
