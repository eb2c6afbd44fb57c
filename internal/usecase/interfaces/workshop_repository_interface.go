package interfaces

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
)

// IWorkshopSettingsRepository abstracts persistence for the one-per-owner
// workshop configuration record.

type IWorkshopSettingsRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (entities.WorkshopSettings, error)
	Save(ctx context.Context, s entities.WorkshopSettings) (entities.WorkshopSettings, error)
}
