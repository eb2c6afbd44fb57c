package interfaces

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByProjectID(ctx context.Context, projectID string) ([]entities.Payment, error)
}
