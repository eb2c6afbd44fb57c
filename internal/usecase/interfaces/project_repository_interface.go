package interfaces

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
)

// IProjectRepository abstracts DynamoDB persistence for Project aggregates.
//
// Updates carry full-record replace semantics; partial-field changes are modeled
// by read-modify-write at the use case layer.

type IProjectRepository interface {
	Create(ctx context.Context, p entities.Project) (entities.Project, error)
	GetByID(ctx context.Context, id string) (entities.Project, error)
	Update(ctx context.Context, p entities.Project) (entities.Project, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Project, error)
}
