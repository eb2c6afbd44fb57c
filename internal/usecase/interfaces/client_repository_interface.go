package interfaces

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
)

// IClientRepository abstracts DynamoDB persistence for workshop clients.

type IClientRepository interface {
	Create(ctx context.Context, c entities.Client) (entities.Client, error)
	GetByID(ctx context.Context, id string) (entities.Client, error)
	Update(ctx context.Context, c entities.Client) (entities.Client, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Client, error)
}
