package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"
)

var (
	ErrWorkshopNotFound     = errors.New("workshop settings not found")
	ErrInvalidWorkingDays   = errors.New("invalid working days per month")
	ErrInvalidTaxPercentage = errors.New("invalid tax percentage")
	ErrInvalidWorkshopOwner = errors.New("invalid workshop owner id")
)

// IWorkshopUseCase is the Workshop Settings Provider: it owns the per-owner
// configuration record and the daily-cost derivation consumed by projects that
// auto-calculate fixed expenses.

type IWorkshopUseCase interface {
	GetByOwner(ctx context.Context, ownerID string) (entities.WorkshopSettings, error)
	Save(ctx context.Context, s entities.WorkshopSettings) (entities.WorkshopSettings, error)
	DailyCost(ctx context.Context, ownerID string) (float64, error)
	TaxPercentage(ctx context.Context, ownerID string) (float64, error)
}

type WorkshopUseCase struct {
	repo  interfaces.IWorkshopSettingsRepository
	cache interfaces.ILocalCache
}

var (
	_ IWorkshopUseCase                     = (*WorkshopUseCase)(nil)
	_ interfaces.IWorkshopSettingsProvider = (*WorkshopUseCase)(nil)
)

func NewWorkshopUseCase(repo interfaces.IWorkshopSettingsRepository, cache interfaces.ILocalCache) *WorkshopUseCase {
	return &WorkshopUseCase{repo: repo, cache: cache}
}

func (u *WorkshopUseCase) GetByOwner(ctx context.Context, ownerID string) (entities.WorkshopSettings, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return entities.WorkshopSettings{}, ErrInvalidWorkshopOwner
	}

	s, err := u.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return entities.WorkshopSettings{}, err
	}
	if s.OwnerID == "" {
		return entities.WorkshopSettings{}, ErrWorkshopNotFound
	}
	return s, nil
}

func (u *WorkshopUseCase) Save(ctx context.Context, s entities.WorkshopSettings) (entities.WorkshopSettings, error) {
	s.OwnerID = strings.TrimSpace(s.OwnerID)
	if s.OwnerID == "" {
		return entities.WorkshopSettings{}, ErrInvalidWorkshopOwner
	}
	if s.WorkingDaysPerMonth < 0 {
		return entities.WorkshopSettings{}, ErrInvalidWorkingDays
	}
	if s.TaxPercentage < 0 || s.TaxPercentage >= 100 {
		return entities.WorkshopSettings{}, ErrInvalidTaxPercentage
	}

	s.UpdatedAt = time.Now().UTC()
	saved, err := u.repo.Save(ctx, s)
	if err != nil {
		return entities.WorkshopSettings{}, err
	}
	if u.cache != nil {
		if raw, err := json.Marshal(saved); err == nil {
			u.cache.Set(interfaces.KeyCachedWorkshop(saved.OwnerID), raw)
		}
	}
	return saved, nil
}

// DailyCost is the live workshop daily-cost figure: monthly expense total over
// working days per month, 0 when the record is missing or incomplete.
func (u *WorkshopUseCase) DailyCost(ctx context.Context, ownerID string) (float64, error) {
	s, err := u.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.DailyCost(), nil
}

func (u *WorkshopUseCase) TaxPercentage(ctx context.Context, ownerID string) (float64, error) {
	s, err := u.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.TaxPercentage, nil
}
