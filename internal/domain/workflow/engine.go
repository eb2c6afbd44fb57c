package workflow

import (
	"time"

	"marcenaria_pro/internal/domain/entities"
)

// StageField selects which ProjectStage field a mutation targets.

type StageField string

const (
	FieldCompleted          StageField = "completed"
	FieldDate               StageField = "date"
	FieldCancellationReason StageField = "cancellationReason"
	FieldRealCost           StageField = "realCost"
	FieldHasCompletionNotes StageField = "hasCompletionNotes"
	FieldCompletionNotes    StageField = "completionNotes"
)

// StageMutation is one requested (stage, field, value) change. Only the value
// slot matching Field is read. Confirmed carries the caller-side confirmation
// required by pivot freeze/unfreeze transitions.
type StageMutation struct {
	Stage entities.StageID
	Field StageField

	Completed          bool
	Date               *time.Time
	CancellationReason string
	RealCost           *float64
	HasCompletionNotes bool
	CompletionNotes    string

	Confirmed bool
}

// Effect is a side effect the caller must execute when applying an allowed
// mutation. The engine itself never performs I/O.

type Effect string

const (
	EffectStampDate     Effect = "stamp_date"
	EffectFreezeCosts   Effect = "freeze_costs"
	EffectUnfreezeCosts Effect = "unfreeze_costs"
)

// Decision is the engine's verdict on a requested mutation.
type Decision struct {
	Allowed              bool
	RequiresConfirmation bool
	Effects              []Effect
	Reason               error
}

func allowed(effects ...Effect) Decision {
	return Decision{Allowed: true, Effects: effects}
}

func rejected(reason error) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates the transition guard for a requested mutation against the
// current stage state. It does not mutate anything.
//
// Rules:
//   - Non-completion fields apply directly, no ordering constraints.
//   - Completing sequence stage i: index 0 is free; up to the pivot each stage
//     requires its predecessor; past the pivot only the pivot itself is required.
//   - Un-completing requires all later sequence stages to be incomplete.
//   - projetoCancelado completes only while instalacao is incomplete and may
//     always be reopened; while it is complete no other transition is accepted.
//   - Pivot completion/un-completion demands caller confirmation and carries the
//     freeze/unfreeze effect.
func Decide(stages *entities.ProjectStages, m StageMutation) Decision {
	st := stages.ByID(m.Stage)
	if st == nil {
		return rejected(ErrUnknownStage)
	}

	switch m.Field {
	case FieldCompleted:
		// handled below
	case FieldDate, FieldCancellationReason, FieldRealCost, FieldHasCompletionNotes, FieldCompletionNotes:
		return allowed()
	default:
		return rejected(ErrUnknownField)
	}

	if m.Completed == st.Completed {
		// Idempotent re-apply. No transition, no effects.
		return allowed()
	}

	if m.Stage == entities.StageProjetoCancelado {
		if m.Completed && stages.Instalacao.Completed {
			return rejected(ErrProjectInstalled)
		}
		return allowed()
	}

	if stages.ProjetoCancelado.Completed {
		return rejected(ErrProjectCanceled)
	}

	i := entities.SequenceIndex(m.Stage)

	if m.Completed {
		switch {
		case i == 0:
			// always legal
		case i <= entities.PivotIndex:
			if !stages.ByID(entities.StageSequence[i-1]).Completed {
				return rejected(ErrPredecessorIncomplete)
			}
		default:
			if !stages.ProjetoTecnico.Completed {
				return rejected(ErrPivotIncomplete)
			}
		}
		if i == entities.PivotIndex {
			return Decision{
				Allowed:              true,
				RequiresConfirmation: true,
				Effects:              []Effect{EffectFreezeCosts, EffectStampDate},
			}
		}
		return allowed(EffectStampDate)
	}

	// Un-completing: every later sequence stage must already be incomplete.
	for j := len(entities.StageSequence) - 1; j > i; j-- {
		if stages.ByID(entities.StageSequence[j]).Completed {
			return rejected(ErrDependentsComplete)
		}
	}
	if i == entities.PivotIndex {
		return Decision{
			Allowed:              true,
			RequiresConfirmation: true,
			Effects:              []Effect{EffectUnfreezeCosts},
		}
	}
	return allowed()
}

// ValidateFreeze checks the pivot-completion preconditions. Called by the
// orchestrator before executing EffectFreezeCosts.
func ValidateFreeze(p *entities.Project) error {
	if p.ClientName == "" {
		return ErrMissingClientName
	}
	if p.Name == "" {
		return ErrMissingProjectName
	}
	return nil
}

// Apply writes the mutation into the project. Callers must have obtained an
// allowed Decision first. The completion date is stamped only on a false->true
// transition and only when no date is set, so re-completing never re-stamps and
// un-completing never clears it.
func Apply(p *entities.Project, m StageMutation, now time.Time) {
	st := p.Stages.ByID(m.Stage)
	if st == nil {
		return
	}

	switch m.Field {
	case FieldCompleted:
		wasCompleted := st.Completed
		st.Completed = m.Completed
		if m.Completed && !wasCompleted && st.Date == nil {
			t := now
			st.Date = &t
		}
	case FieldDate:
		st.Date = m.Date
	case FieldCancellationReason:
		st.CancellationReason = m.CancellationReason
	case FieldRealCost:
		st.RealCost = m.RealCost
	case FieldHasCompletionNotes:
		st.HasCompletionNotes = m.HasCompletionNotes
	case FieldCompletionNotes:
		st.CompletionNotes = m.CompletionNotes
	}

	p.LastModified = now
}
