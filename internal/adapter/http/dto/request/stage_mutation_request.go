package request

import (
	"errors"
	"strings"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/domain/workflow"
)

var ErrUnknownStageField = errors.New("unknown stage field")

// StageMutationRequest is one (stage, field, value) change request. The value
// slot matching Field is the only one read; Confirmed acknowledges the
// freeze/unfreeze warning shown when the technical design stage is toggled.
type StageMutationRequest struct {
	Stage string `json:"stage" binding:"required"`
	Field string `json:"field" binding:"required"`

	Completed          bool       `json:"completed"`
	Date               *time.Time `json:"date"`
	CancellationReason string     `json:"cancellation_reason"`
	RealCost           *float64   `json:"real_cost"`
	HasCompletionNotes bool       `json:"has_completion_notes"`
	CompletionNotes    string     `json:"completion_notes"`

	Confirmed bool `json:"confirmed"`
}

func (r StageMutationRequest) ToMutation() (workflow.StageMutation, error) {
	field := workflow.StageField(strings.TrimSpace(r.Field))
	switch field {
	case workflow.FieldCompleted, workflow.FieldDate, workflow.FieldCancellationReason,
		workflow.FieldRealCost, workflow.FieldHasCompletionNotes, workflow.FieldCompletionNotes:
	default:
		return workflow.StageMutation{}, ErrUnknownStageField
	}

	return workflow.StageMutation{
		Stage:              entities.StageID(strings.TrimSpace(r.Stage)),
		Field:              field,
		Completed:          r.Completed,
		Date:               r.Date,
		CancellationReason: r.CancellationReason,
		RealCost:           r.RealCost,
		HasCompletionNotes: r.HasCompletionNotes,
		CompletionNotes:    r.CompletionNotes,
		Confirmed:          r.Confirmed,
	}, nil
}
