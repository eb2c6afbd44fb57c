package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"marcenaria_pro/internal/adapter/cache"
	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/domain/workflow"
	"marcenaria_pro/internal/usecase/interfaces"
	mock_interfaces "marcenaria_pro/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func baseProject() entities.Project {
	return entities.Project{
		ID:                          "p-1",
		OwnerID:                     "owner-1",
		Name:                        "Cozinha",
		ClientName:                  "Maria",
		UseWorkshopForFixedExpenses: true,
		FixedExpenseDays:            10,
		PriceType:                   entities.PriceTypeNormal,
	}
}

func providerWith(ctrl *gomock.Controller, daily, tax float64) *mock_interfaces.MockIWorkshopSettingsProvider {
	settings := mock_interfaces.NewMockIWorkshopSettingsProvider(ctrl)
	settings.EXPECT().DailyCost(gomock.Any(), "owner-1").Return(daily, nil)
	settings.EXPECT().TaxPercentage(gomock.Any(), "owner-1").Return(tax, nil)
	return settings
}

func completeMutation(stage entities.StageID, confirmed bool) workflow.StageMutation {
	return workflow.StageMutation{
		Stage:     stage,
		Field:     workflow.FieldCompleted,
		Completed: true,
		Confirmed: confirmed,
	}
}

func TestProjectUseCase_ApplyStageMutation_Guards(t *testing.T) {
	t.Run("invalid project id", func(t *testing.T) {
		uc := NewProjectUseCase(nil, nil, nil, nil)
		_, err := uc.ApplyStageMutation(context.Background(), "  ", completeMutation(entities.StageOrcamento, false))
		if !errors.Is(err, ErrInvalidProjectID) {
			t.Fatalf("expected ErrInvalidProjectID, got %v", err)
		}
	})

	t.Run("project not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, nil, nil)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Project{}, nil)

		_, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageOrcamento, false))
		if !errors.Is(err, ErrProjectNotFound) {
			t.Fatalf("expected ErrProjectNotFound, got %v", err)
		}
	})

	t.Run("guard violation is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(baseProject(), nil)
		// No Update expected: the mutation must not persist anything.

		_, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageCorte, false))
		if !errors.Is(err, workflow.ErrGuardViolation) {
			t.Fatalf("expected guard violation, got %v", err)
		}
	})

	t.Run("terminal states exclude each other", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		installed := baseProject()
		installed.Stages.Orcamento.Completed = true
		installed.Stages.ProjetoTecnico.Completed = true
		installed.Stages.Instalacao.Completed = true
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(installed, nil)

		_, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageProjetoCancelado, false))
		if !errors.Is(err, workflow.ErrProjectInstalled) {
			t.Fatalf("expected ErrProjectInstalled, got %v", err)
		}
	})
}

func TestProjectUseCase_ApplyStageMutation_Freeze(t *testing.T) {
	t.Run("missing client name rejects before any side effect", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		settings := mock_interfaces.NewMockIWorkshopSettingsProvider(ctrl)
		uc := NewProjectUseCase(repo, settings, cache.NewMemory(), nil)

		p := baseProject()
		p.ClientName = ""
		p.Stages.Orcamento.Completed = true
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)
		// Neither the settings read nor the store write may happen.

		_, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageProjetoTecnico, true))
		if !errors.Is(err, workflow.ErrMissingClientName) {
			t.Fatalf("expected ErrMissingClientName, got %v", err)
		}
	})

	t.Run("declined confirmation aborts everything", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		p := baseProject()
		p.Stages.Orcamento.Completed = true
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)

		_, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageProjetoTecnico, false))
		if !errors.Is(err, workflow.ErrConfirmationDeclined) {
			t.Fatalf("expected ErrConfirmationDeclined, got %v", err)
		}
	})

	t.Run("freeze captures provider daily cost at that instant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		uc := NewProjectUseCase(repo, providerWith(ctrl, 150, 10), mem, nil)

		p := baseProject()
		p.Stages.Orcamento.Completed = true
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.AssignableToTypeOf(entities.Project{})).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) {
				return stored, nil
			},
		)

		var logged bytes.Buffer
		log.SetOutput(&logged)
		defer log.SetOutput(os.Stderr)

		res, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageProjetoTecnico, true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(logged.String(), "daily_cost=150") {
			t.Fatalf("expected the frozen daily cost value in the log, got %q", logged.String())
		}
		if res.FrozenDailyCost == nil || *res.FrozenDailyCost != 150 {
			t.Fatalf("expected frozen daily cost 150, got %v", res.FrozenDailyCost)
		}
		if res.FrozenTaxPercentage == nil || *res.FrozenTaxPercentage != 10 {
			t.Fatalf("expected frozen tax 10, got %v", res.FrozenTaxPercentage)
		}
		if !res.Stages.ProjetoTecnico.Completed || res.Stages.ProjetoTecnico.Date == nil {
			t.Fatalf("expected completed stage with stamped date: %+v", res.Stages.ProjetoTecnico)
		}

		// After freezing, a provider change must not affect the project.
		total := workflow.FixedExpensesTotal(&res, 200)
		if total != 1500 {
			t.Fatalf("expected frozen total 1500, got %v", total)
		}

		// Optimistic write-through happened.
		if _, ok := mem.Get(interfaces.KeyProjectDraftPrefix + "p-1"); !ok {
			t.Fatalf("expected cached draft")
		}
	})

	t.Run("manual fixed expenses never capture a daily cost", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, providerWith(ctrl, 150, 10), cache.NewMemory(), nil)

		p := baseProject()
		p.UseWorkshopForFixedExpenses = false
		p.Stages.Orcamento.Completed = true
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) { return stored, nil },
		)

		res, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageProjetoTecnico, true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.FrozenDailyCost != nil {
			t.Fatalf("expected no frozen daily cost, got %v", *res.FrozenDailyCost)
		}
		if res.FrozenFinalPrice == nil {
			t.Fatalf("expected frozen final price")
		}
	})

	t.Run("unfreeze clears the snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		frozen := 150.0
		price := 2000.0
		p := baseProject()
		p.Stages.Orcamento.Completed = true
		p.Stages.ProjetoTecnico.Completed = true
		p.FrozenDailyCost = &frozen
		p.FrozenFinalPrice = &price
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) { return stored, nil },
		)

		m := workflow.StageMutation{Stage: entities.StageProjetoTecnico, Field: workflow.FieldCompleted, Completed: false, Confirmed: true}
		res, err := uc.ApplyStageMutation(context.Background(), "p-1", m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.FrozenDailyCost != nil || res.FrozenFinalPrice != nil {
			t.Fatalf("expected cleared snapshot: %+v", res)
		}
		if workflow.FixedExpensesTotal(&res, 200) != 2000 {
			t.Fatalf("expected live daily cost to rule again")
		}
	})
}

func TestProjectUseCase_ApplyStageMutation_Persistence(t *testing.T) {
	t.Run("store failure keeps optimistic state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		uc := NewProjectUseCase(repo, nil, mem, nil)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(baseProject(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Project{}, errors.New("dynamo down"))

		res, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageOrcamento, false))
		if !errors.Is(err, ErrPersistenceFailed) {
			t.Fatalf("expected ErrPersistenceFailed, got %v", err)
		}
		// The mutated project is still returned and cached: no rollback.
		if !res.Stages.Orcamento.Completed {
			t.Fatalf("expected optimistic state in response")
		}
		raw, ok := mem.Get(interfaces.KeyProjectDraftPrefix + "p-1")
		if !ok {
			t.Fatalf("expected cached draft despite store failure")
		}
		var cached entities.Project
		if err := json.Unmarshal(raw, &cached); err != nil || !cached.Stages.Orcamento.Completed {
			t.Fatalf("expected cached optimistic state, err=%v", err)
		}
	})

	t.Run("idempotent re-completion keeps the date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		stamped := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		p := baseProject()
		p.Stages.Orcamento.Completed = true
		p.Stages.Orcamento.Date = &stamped
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(p, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) { return stored, nil },
		)

		res, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageOrcamento, false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Stages.Orcamento.Date == nil || !res.Stages.Orcamento.Date.Equal(stamped) {
			t.Fatalf("expected untouched date, got %v", res.Stages.Orcamento.Date)
		}
	})

	t.Run("stage completion notifies the chat webhook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		notifier := mock_interfaces.NewMockIChatNotifier(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), notifier)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(baseProject(), nil)
		notifier.EXPECT().NotifyStageCompleted(gomock.Any(), gomock.Any(), entities.StageOrcamento).Return(errors.New("webhook down"))
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) { return stored, nil },
		)

		// A notifier failure never vetoes the mutation.
		if _, err := uc.ApplyStageMutation(context.Background(), "p-1", completeMutation(entities.StageOrcamento, false)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestProjectUseCase_ListByOwner_SessionContext(t *testing.T) {
	t.Run("cache hit skips the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		raw, _ := json.Marshal([]entities.Project{baseProject()})
		mem.Set(interfaces.KeyCachedProjects("owner-1"), raw)
		uc := NewProjectUseCase(repo, nil, mem, nil)

		got, err := uc.ListByOwner(context.Background(), SessionContext{}, "owner-1")
		if err != nil || len(got) != 1 || got[0].ID != "p-1" {
			t.Fatalf("expected cached list, got %v err=%v", got, err)
		}
	})

	t.Run("first login refreshes from the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		mem.Set(interfaces.KeyCachedProjects("owner-1"), json.RawMessage(`[{"id":"stale"}]`))
		uc := NewProjectUseCase(repo, nil, mem, nil)

		repo.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return([]entities.Project{baseProject()}, nil)

		session := SessionContext{IsFirstLoginThisSession: true}
		got, err := uc.ListByOwner(context.Background(), session, "owner-1")
		if err != nil || len(got) != 1 || got[0].ID != "p-1" {
			t.Fatalf("expected fresh list, got %v err=%v", got, err)
		}

		// Cache refreshed for the next read.
		raw, _ := mem.Get(interfaces.KeyCachedProjects("owner-1"))
		var cached []entities.Project
		if err := json.Unmarshal(raw, &cached); err != nil || cached[0].ID != "p-1" {
			t.Fatalf("expected refreshed cache, got %s", raw)
		}
	})

	t.Run("force reload behaves like first login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		mem.Set(interfaces.KeyCachedProjects("owner-1"), json.RawMessage(`[{"id":"stale"}]`))
		uc := NewProjectUseCase(repo, nil, mem, nil)

		repo.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return(nil, nil)

		session := SessionContext{ForceReloadRequested: true}
		if _, err := uc.ListByOwner(context.Background(), session, "owner-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("owners sharing one cache never see each other's projects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		mem := cache.NewMemory()
		uc := NewProjectUseCase(repo, nil, mem, nil)

		// Owner A's first login warms the cache with their list.
		repo.EXPECT().ListByOwner(gomock.Any(), "owner-a").Return([]entities.Project{{ID: "p-a", OwnerID: "owner-a", Name: "Cozinha"}}, nil)
		repo.EXPECT().ListByOwner(gomock.Any(), "owner-b").Return([]entities.Project{{ID: "p-b", OwnerID: "owner-b", Name: "Armário"}}, nil)

		if _, err := uc.ListByOwner(context.Background(), SessionContext{IsFirstLoginThisSession: true}, "owner-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Owner B's mid-session read must hit the store, not owner A's entry.
		got, err := uc.ListByOwner(context.Background(), SessionContext{}, "owner-b")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range got {
			if p.OwnerID != "owner-b" {
				t.Fatalf("owner-b was served owner %q's project %q", p.OwnerID, p.ID)
			}
		}

		// Both owners now have their own cached entries.
		if _, ok := mem.Get(interfaces.KeyCachedProjects("owner-a")); !ok {
			t.Fatalf("expected cached list for owner-a")
		}
		if _, ok := mem.Get(interfaces.KeyCachedProjects("owner-b")); !ok {
			t.Fatalf("expected cached list for owner-b")
		}
	})
}

func TestProjectUseCase_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIProjectRepository(ctrl)
	mem := cache.NewMemory()
	uc := NewProjectUseCase(repo, nil, mem, nil)

	raw, _ := json.Marshal([]entities.Project{baseProject()})
	mem.Set(interfaces.KeyCachedProjects("owner-1"), raw)
	mem.Set(interfaces.KeyProjectDraftPrefix+"p-1", json.RawMessage(`{}`))

	repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(baseProject(), nil)
	repo.EXPECT().Delete(gomock.Any(), "p-1").Return(nil)

	if err := uc.Delete(context.Background(), "p-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mem.Get(interfaces.KeyCachedProjects("owner-1")); ok {
		t.Fatalf("expected the owner's cached list to be invalidated")
	}
	if _, ok := mem.Get(interfaces.KeyProjectDraftPrefix + "p-1"); ok {
		t.Fatalf("expected the draft to be removed")
	}
}

func TestProjectUseCase_Update(t *testing.T) {
	t.Run("estimated completion date locked before pivot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(baseProject(), nil)

		p := baseProject()
		p.EstimatedCompletionDate = "2026-10-01"
		_, err := uc.Update(context.Background(), p)
		if !errors.Is(err, ErrDateLockedBeforePivot) {
			t.Fatalf("expected ErrDateLockedBeforePivot, got %v", err)
		}
	})

	t.Run("stage state and snapshots are carried over", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIProjectRepository(ctrl)
		uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

		frozen := 150.0
		existing := baseProject()
		existing.Stages.Orcamento.Completed = true
		existing.Stages.ProjetoTecnico.Completed = true
		existing.FrozenDailyCost = &frozen
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, stored entities.Project) (entities.Project, error) { return stored, nil },
		)

		p := baseProject()
		p.Name = "Cozinha planejada"
		p.Stages = entities.ProjectStages{} // callers cannot sneak stage edits through Update
		res, err := uc.Update(context.Background(), p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Stages.ProjetoTecnico.Completed || res.FrozenDailyCost == nil {
			t.Fatalf("expected preserved stages and snapshot: %+v", res)
		}
		if res.Name != "Cozinha planejada" {
			t.Fatalf("expected updated name")
		}
	})
}

func TestProjectUseCase_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIProjectRepository(ctrl)
	uc := NewProjectUseCase(repo, nil, cache.NewMemory(), nil)

	repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Project{})).DoAndReturn(
		func(_ context.Context, p entities.Project) (entities.Project, error) {
			if p.ID == "" || p.CreatedAt.IsZero() || p.PriceType != entities.PriceTypeNormal {
				t.Fatalf("unexpected project: %+v", p)
			}
			if p.Stages.Orcamento.Completed || p.FrozenDailyCost != nil {
				t.Fatalf("new projects start with clean stages and no snapshot")
			}
			return p, nil
		},
	)

	in := entities.Project{OwnerID: "owner-1", Name: " Cozinha ", ClientName: "Maria"}
	res, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Name != "Cozinha" {
		t.Fatalf("expected trimmed name, got %q", res.Name)
	}

	_, err = uc.Create(context.Background(), entities.Project{OwnerID: "owner-1"})
	if !errors.Is(err, ErrInvalidProjectName) {
		t.Fatalf("expected ErrInvalidProjectName, got %v", err)
	}
}
