package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/domain/workflow"
	"marcenaria_pro/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrInvalidProjectID      = errors.New("invalid project id")
	ErrInvalidOwnerID        = errors.New("invalid owner id")
	ErrInvalidProjectName    = errors.New("invalid project name")
	ErrDateLockedBeforePivot = errors.New("estimated completion date requires completed technical design")
	ErrPersistenceFailed     = errors.New("project store write failed")
)

// SessionContext drives the cache-vs-store decision when loading collections.
// It replaces the ad hoc browser-storage flags of the original behavior with an
// explicit object the caller fills per request.
type SessionContext struct {
	IsFirstLoginThisSession bool
	ForceReloadRequested    bool
}

// IProjectUseCase exposes project CRUD plus the stage workflow orchestration.
//
// ApplyStageMutation is the single entry point for stage changes: it runs the
// transition guard, the pivot freeze/unfreeze side effects and the
// optimistic-persistence contract described below.

type IProjectUseCase interface {
	Create(ctx context.Context, p entities.Project) (entities.Project, error)
	GetByID(ctx context.Context, id string) (entities.Project, error)
	Update(ctx context.Context, p entities.Project) (entities.Project, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, session SessionContext, ownerID string) ([]entities.Project, error)
	ApplyStageMutation(ctx context.Context, projectID string, m workflow.StageMutation) (entities.Project, error)
	PriceBreakdown(ctx context.Context, projectID string) (workflow.PriceBreakdown, error)
}

type ProjectUseCase struct {
	repo     interfaces.IProjectRepository
	settings interfaces.IWorkshopSettingsProvider
	cache    interfaces.ILocalCache
	notifier interfaces.IChatNotifier
}

var _ IProjectUseCase = (*ProjectUseCase)(nil)

func NewProjectUseCase(
	repo interfaces.IProjectRepository,
	settings interfaces.IWorkshopSettingsProvider,
	cache interfaces.ILocalCache,
	notifier interfaces.IChatNotifier,
) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, settings: settings, cache: cache, notifier: notifier}
}

func (u *ProjectUseCase) Create(ctx context.Context, p entities.Project) (entities.Project, error) {
	p.OwnerID = strings.TrimSpace(p.OwnerID)
	p.Name = strings.TrimSpace(p.Name)
	p.ClientName = strings.TrimSpace(p.ClientName)
	if p.OwnerID == "" {
		return entities.Project{}, ErrInvalidOwnerID
	}
	if p.Name == "" {
		return entities.Project{}, ErrInvalidProjectName
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.LastModified = now
	p.Stages = entities.ProjectStages{}
	workflow.Unfreeze(&p)
	if p.PriceType == "" {
		p.PriceType = entities.PriceTypeNormal
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		return entities.Project{}, err
	}
	u.cacheProject(created)
	return created, nil
}

func (u *ProjectUseCase) GetByID(ctx context.Context, id string) (entities.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Project{}, ErrInvalidProjectID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}
	if p.ID == "" {
		return entities.Project{}, ErrProjectNotFound
	}
	return p, nil
}

// Update replaces the editable fields of a project. Stage state and frozen
// snapshots are owned by ApplyStageMutation and always carried over from the
// stored record. The estimated completion date only becomes editable once the
// technical design is complete.
func (u *ProjectUseCase) Update(ctx context.Context, p entities.Project) (entities.Project, error) {
	existing, err := u.GetByID(ctx, p.ID)
	if err != nil {
		return entities.Project{}, err
	}

	if p.EstimatedCompletionDate != existing.EstimatedCompletionDate && !existing.Stages.ProjetoTecnico.Completed {
		return entities.Project{}, ErrDateLockedBeforePivot
	}

	p.OwnerID = existing.OwnerID
	p.CreatedAt = existing.CreatedAt
	p.Stages = existing.Stages
	p.FrozenDailyCost = existing.FrozenDailyCost
	p.FrozenTaxPercentage = existing.FrozenTaxPercentage
	p.FrozenApplyTax = existing.FrozenApplyTax
	p.FrozenTaxAmount = existing.FrozenTaxAmount
	p.FrozenFinalPrice = existing.FrozenFinalPrice
	p.LastModified = time.Now().UTC()

	updated, err := u.repo.Update(ctx, p)
	if err != nil {
		return entities.Project{}, err
	}
	u.cacheProject(updated)
	return updated, nil
}

func (u *ProjectUseCase) Delete(ctx context.Context, id string) error {
	// The stored record is read first so the owner's cached list can be
	// invalidated along with the draft.
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if u.cache != nil {
		u.cache.Remove(interfaces.KeyProjectDraftPrefix + p.ID)
		u.cache.Remove(interfaces.KeyCachedProjects(p.OwnerID))
	}
	return nil
}

// ListByOwner serves from the local cache except on the first login of a
// session or an explicit reload request, which both refresh it from the store.
func (u *ProjectUseCase) ListByOwner(ctx context.Context, session SessionContext, ownerID string) ([]entities.Project, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}

	key := interfaces.KeyCachedProjects(ownerID)
	useCache := !session.IsFirstLoginThisSession && !session.ForceReloadRequested
	if useCache && u.cache != nil {
		if raw, ok := u.cache.Get(key); ok {
			var cached []entities.Project
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			log.Printf("[project][usecase] discarding corrupt cached project list owner_id=%s", ownerID)
		}
	}

	projects, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		if raw, err := json.Marshal(projects); err == nil {
			u.cache.Set(key, raw)
		}
	}
	return projects, nil
}

// ApplyStageMutation runs one (stage, field, value) change through the workflow
// engine and persists the outcome.
//
// Persistence contract: after the guard and side effects pass, the mutated
// project is written through to the local cache first (optimistic update), then
// to the store. A store failure keeps the optimistic state and is surfaced as
// ErrPersistenceFailed wrapping the cause; no rollback is attempted.
func (u *ProjectUseCase) ApplyStageMutation(ctx context.Context, projectID string, m workflow.StageMutation) (entities.Project, error) {
	p, err := u.GetByID(ctx, projectID)
	if err != nil {
		return entities.Project{}, err
	}

	decision := workflow.Decide(&p.Stages, m)
	if !decision.Allowed {
		return entities.Project{}, decision.Reason
	}

	var doFreeze, doUnfreeze bool
	for _, e := range decision.Effects {
		switch e {
		case workflow.EffectFreezeCosts:
			doFreeze = true
		case workflow.EffectUnfreezeCosts:
			doUnfreeze = true
		}
	}

	// Validation precedes the confirmation prompt so the user isn't asked to
	// confirm a mutation that cannot proceed anyway.
	if doFreeze {
		if err := workflow.ValidateFreeze(&p); err != nil {
			return entities.Project{}, err
		}
	}
	if decision.RequiresConfirmation && !m.Confirmed {
		return entities.Project{}, workflow.ErrConfirmationDeclined
	}

	now := time.Now().UTC()
	if doFreeze {
		in, err := u.pricingInputs(ctx, p.OwnerID)
		if err != nil {
			return entities.Project{}, err
		}
		workflow.Freeze(&p, in)
		if p.FrozenDailyCost != nil {
			log.Printf("[project][usecase] costs frozen project_id=%s daily_cost=%v", p.ID, *p.FrozenDailyCost)
		} else {
			log.Printf("[project][usecase] costs frozen project_id=%s fixed_expenses=manual", p.ID)
		}
	}
	if doUnfreeze {
		workflow.Unfreeze(&p)
		log.Printf("[project][usecase] costs unfrozen project_id=%s", p.ID)
	}

	workflow.Apply(&p, m, now)
	u.cacheProject(p)

	if u.notifier != nil && m.Field == workflow.FieldCompleted && m.Completed {
		if err := u.notifier.NotifyStageCompleted(ctx, p, m.Stage); err != nil {
			log.Printf("[project][usecase] chat notification failed project_id=%s stage=%s err=%v", p.ID, m.Stage, err)
		}
	}

	stored, err := u.repo.Update(ctx, p)
	if err != nil {
		log.Printf("[project][usecase] store write failed after optimistic update project_id=%s err=%v", p.ID, err)
		return p, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return stored, nil
}

// PriceBreakdown derives the full pricing of a project against the owner's
// current workshop settings (or the frozen snapshot, when set).
func (u *ProjectUseCase) PriceBreakdown(ctx context.Context, projectID string) (workflow.PriceBreakdown, error) {
	p, err := u.GetByID(ctx, projectID)
	if err != nil {
		return workflow.PriceBreakdown{}, err
	}

	in, err := u.pricingInputs(ctx, p.OwnerID)
	if err != nil {
		return workflow.PriceBreakdown{}, err
	}
	return workflow.Price(&p, in), nil
}

func (u *ProjectUseCase) pricingInputs(ctx context.Context, ownerID string) (workflow.PricingInputs, error) {
	daily, err := u.settings.DailyCost(ctx, ownerID)
	if err != nil {
		return workflow.PricingInputs{}, err
	}
	tax, err := u.settings.TaxPercentage(ctx, ownerID)
	if err != nil {
		return workflow.PricingInputs{}, err
	}
	return workflow.PricingInputs{DailyCost: daily, TaxPercentage: tax}, nil
}

func (u *ProjectUseCase) cacheProject(p entities.Project) {
	if u.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	u.cache.Set(interfaces.KeyProjectDraftPrefix+p.ID, raw)

	// Keep the owner's cached collection coherent when present.
	listKey := interfaces.KeyCachedProjects(p.OwnerID)
	listRaw, ok := u.cache.Get(listKey)
	if !ok {
		return
	}
	var cached []entities.Project
	if err := json.Unmarshal(listRaw, &cached); err != nil {
		u.cache.Remove(listKey)
		return
	}
	replaced := false
	for i := range cached {
		if cached[i].ID == p.ID {
			cached[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		cached = append(cached, p)
	}
	if b, err := json.Marshal(cached); err == nil {
		u.cache.Set(listKey, b)
	}
}
