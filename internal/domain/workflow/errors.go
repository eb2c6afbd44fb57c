package workflow

import (
	"errors"
	"fmt"
)

// Error taxonomy for stage mutations. Guard violations are a no-op backstop (the
// UI disables illegal controls); validation and confirmation failures abort the
// whole mutation before any state change.
var (
	ErrGuardViolation = errors.New("stage transition not allowed")
	ErrValidation     = errors.New("validation failed")

	ErrConfirmationDeclined = errors.New("confirmation declined")
)

// Guard violation reasons. All wrap ErrGuardViolation.
var (
	ErrUnknownStage          = fmt.Errorf("%w: unknown stage", ErrGuardViolation)
	ErrUnknownField          = fmt.Errorf("%w: unknown stage field", ErrGuardViolation)
	ErrProjectCanceled       = fmt.Errorf("%w: project is canceled", ErrGuardViolation)
	ErrProjectInstalled      = fmt.Errorf("%w: project is already installed", ErrGuardViolation)
	ErrPredecessorIncomplete = fmt.Errorf("%w: previous stage not completed", ErrGuardViolation)
	ErrPivotIncomplete       = fmt.Errorf("%w: technical design not completed", ErrGuardViolation)
	ErrDependentsComplete    = fmt.Errorf("%w: later stages must be un-completed first", ErrGuardViolation)
)

// Freeze precondition failures. Both wrap ErrValidation.
var (
	ErrMissingClientName  = fmt.Errorf("%w: client name is required before freezing costs", ErrValidation)
	ErrMissingProjectName = fmt.Errorf("%w: project name is required before freezing costs", ErrValidation)
)
