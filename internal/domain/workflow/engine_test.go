package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marcenaria_pro/internal/domain/entities"
)

func stagesWith(completed ...entities.StageID) entities.ProjectStages {
	var s entities.ProjectStages
	for _, id := range completed {
		s.ByID(id).Completed = true
	}
	return s
}

func complete(stage entities.StageID) StageMutation {
	return StageMutation{Stage: stage, Field: FieldCompleted, Completed: true}
}

func uncomplete(stage entities.StageID) StageMutation {
	return StageMutation{Stage: stage, Field: FieldCompleted, Completed: false}
}

func TestDecide_CompletionOrdering(t *testing.T) {
	tests := []struct {
		name    string
		stages  entities.ProjectStages
		m       StageMutation
		allowed bool
		reason  error
	}{
		{
			name:    "orcamento always legal",
			stages:  entities.ProjectStages{},
			m:       complete(entities.StageOrcamento),
			allowed: true,
		},
		{
			name:   "pivot requires orcamento",
			stages: entities.ProjectStages{},
			m:      complete(entities.StageProjetoTecnico),
			reason: ErrPredecessorIncomplete,
		},
		{
			name:    "pivot after orcamento",
			stages:  stagesWith(entities.StageOrcamento),
			m:       complete(entities.StageProjetoTecnico),
			allowed: true,
		},
		{
			name:   "corte before pivot rejected",
			stages: stagesWith(entities.StageOrcamento),
			m:      complete(entities.StageCorte),
			reason: ErrPivotIncomplete,
		},
		{
			name:    "corte after pivot legal",
			stages:  stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico),
			m:       complete(entities.StageCorte),
			allowed: true,
		},
		{
			name:    "post-pivot stages are unordered among themselves",
			stages:  stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico),
			m:       complete(entities.StageEntrega),
			allowed: true,
		},
		{
			name:    "instalacao needs only the pivot",
			stages:  stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico),
			m:       complete(entities.StageInstalacao),
			allowed: true,
		},
		{
			name:   "instalacao without pivot rejected",
			stages: stagesWith(entities.StageOrcamento),
			m:      complete(entities.StageInstalacao),
			reason: ErrPivotIncomplete,
		},
		{
			name:   "unknown stage rejected",
			stages: entities.ProjectStages{},
			m:      complete(entities.StageID("polimento")),
			reason: ErrUnknownStage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.stages
			d := Decide(&tc.stages, tc.m)
			assert.Equal(t, tc.allowed, d.Allowed)
			if tc.reason != nil {
				assert.ErrorIs(t, d.Reason, tc.reason)
				assert.ErrorIs(t, d.Reason, ErrGuardViolation)
			}
			// Decide never mutates.
			assert.Equal(t, before, tc.stages)
		})
	}
}

func TestDecide_Uncompletion(t *testing.T) {
	t.Run("dependents must be un-completed first", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageCorte)
		d := Decide(&s, uncomplete(entities.StageProjetoTecnico))
		require.False(t, d.Allowed)
		assert.ErrorIs(t, d.Reason, ErrDependentsComplete)
	})

	t.Run("highest index first is legal", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageCorte)
		d := Decide(&s, uncomplete(entities.StageCorte))
		assert.True(t, d.Allowed)
	})

	t.Run("pivot un-completion carries unfreeze and confirmation", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico)
		d := Decide(&s, uncomplete(entities.StageProjetoTecnico))
		require.True(t, d.Allowed)
		assert.True(t, d.RequiresConfirmation)
		assert.Equal(t, []Effect{EffectUnfreezeCosts}, d.Effects)
	})

	t.Run("instalacao un-completion has no higher dependents", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageInstalacao)
		d := Decide(&s, uncomplete(entities.StageInstalacao))
		assert.True(t, d.Allowed)
	})
}

func TestDecide_PivotCompletion(t *testing.T) {
	s := stagesWith(entities.StageOrcamento)
	d := Decide(&s, complete(entities.StageProjetoTecnico))
	require.True(t, d.Allowed)
	assert.True(t, d.RequiresConfirmation)
	assert.Equal(t, []Effect{EffectFreezeCosts, EffectStampDate}, d.Effects)
}

func TestDecide_TerminalStates(t *testing.T) {
	t.Run("cancel rejected after instalacao", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageInstalacao)
		d := Decide(&s, complete(entities.StageProjetoCancelado))
		require.False(t, d.Allowed)
		assert.ErrorIs(t, d.Reason, ErrProjectInstalled)
	})

	t.Run("instalacao rejected after cancel", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageProjetoCancelado)
		d := Decide(&s, complete(entities.StageInstalacao))
		require.False(t, d.Allowed)
		assert.ErrorIs(t, d.Reason, ErrProjectCanceled)
	})

	t.Run("no transition at all while canceled", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoCancelado)
		d := Decide(&s, uncomplete(entities.StageOrcamento))
		require.False(t, d.Allowed)
		assert.ErrorIs(t, d.Reason, ErrProjectCanceled)
	})

	t.Run("reopening a canceled project is always legal", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoCancelado)
		d := Decide(&s, uncomplete(entities.StageProjetoCancelado))
		assert.True(t, d.Allowed)
	})

	t.Run("cancel legal before instalacao", func(t *testing.T) {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico, entities.StageCorte)
		d := Decide(&s, complete(entities.StageProjetoCancelado))
		assert.True(t, d.Allowed)
	})
}

func TestDecide_NonCompletionFields(t *testing.T) {
	reason := "cliente desistiu"
	s := stagesWith(entities.StageOrcamento, entities.StageProjetoCancelado)

	// Other field mutations bypass ordering; even a canceled project may record
	// its cancellation reason or real cost.
	d := Decide(&s, StageMutation{
		Stage:              entities.StageProjetoCancelado,
		Field:              FieldCancellationReason,
		CancellationReason: reason,
	})
	assert.True(t, d.Allowed)

	d = Decide(&s, StageMutation{Stage: entities.StageOrcamento, Field: StageField("cor")})
	require.False(t, d.Allowed)
	assert.ErrorIs(t, d.Reason, ErrUnknownField)
}

func TestDecide_Idempotent(t *testing.T) {
	s := stagesWith(entities.StageOrcamento)
	d := Decide(&s, complete(entities.StageOrcamento))
	require.True(t, d.Allowed)
	assert.Empty(t, d.Effects)
	assert.False(t, d.RequiresConfirmation)
}

func TestApply_DateStamping(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)

	p := &entities.Project{}
	Apply(p, complete(entities.StageOrcamento), now)
	require.NotNil(t, p.Stages.Orcamento.Date)
	assert.Equal(t, now, *p.Stages.Orcamento.Date)
	assert.Equal(t, now, p.LastModified)

	// Re-completing never re-stamps.
	Apply(p, complete(entities.StageOrcamento), later)
	assert.Equal(t, now, *p.Stages.Orcamento.Date)

	// Un-completing keeps the date.
	Apply(p, uncomplete(entities.StageOrcamento), later)
	assert.False(t, p.Stages.Orcamento.Completed)
	require.NotNil(t, p.Stages.Orcamento.Date)
	assert.Equal(t, now, *p.Stages.Orcamento.Date)

	// An explicit date edit wins.
	edited := later.Add(time.Hour)
	Apply(p, StageMutation{Stage: entities.StageOrcamento, Field: FieldDate, Date: &edited}, later)
	assert.Equal(t, edited, *p.Stages.Orcamento.Date)
}

func TestApply_OtherFields(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cost := 3250.0

	p := &entities.Project{}
	Apply(p, StageMutation{Stage: entities.StageInstalacao, Field: FieldRealCost, RealCost: &cost}, now)
	Apply(p, StageMutation{Stage: entities.StageInstalacao, Field: FieldHasCompletionNotes, HasCompletionNotes: true}, now)
	Apply(p, StageMutation{Stage: entities.StageInstalacao, Field: FieldCompletionNotes, CompletionNotes: "ajuste na bancada"}, now)

	require.NotNil(t, p.Stages.Instalacao.RealCost)
	assert.Equal(t, cost, *p.Stages.Instalacao.RealCost)
	assert.True(t, p.Stages.Instalacao.HasCompletionNotes)
	assert.Equal(t, "ajuste na bancada", p.Stages.Instalacao.CompletionNotes)
}

func TestValidateFreeze(t *testing.T) {
	p := &entities.Project{Name: "Cozinha"}
	err := ValidateFreeze(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingClientName)
	assert.ErrorIs(t, err, ErrValidation)

	p = &entities.Project{ClientName: "Maria"}
	assert.ErrorIs(t, ValidateFreeze(p), ErrMissingProjectName)

	p = &entities.Project{Name: "Cozinha", ClientName: "Maria"}
	assert.NoError(t, ValidateFreeze(p))
}

func TestDecide_EverySequencePrefixRule(t *testing.T) {
	// For every pre-pivot index, completing before the predecessor must fail.
	for i := 1; i <= entities.PivotIndex; i++ {
		var s entities.ProjectStages
		for j := 0; j < i-1; j++ {
			s.ByID(entities.StageSequence[j]).Completed = true
		}
		d := Decide(&s, complete(entities.StageSequence[i]))
		assert.False(t, d.Allowed, "stage %s", entities.StageSequence[i])
		assert.False(t, errors.Is(d.Reason, ErrPivotIncomplete), "pre-pivot stages report predecessor errors")
	}

	// Every post-pivot stage requires only the pivot, regardless of siblings.
	for i := entities.PivotIndex + 1; i < len(entities.StageSequence); i++ {
		s := stagesWith(entities.StageOrcamento, entities.StageProjetoTecnico)
		d := Decide(&s, complete(entities.StageSequence[i]))
		assert.True(t, d.Allowed, "stage %s", entities.StageSequence[i])
	}
}
