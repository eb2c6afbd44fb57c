package response

import (
	"time"

	"marcenaria_pro/internal/domain/entities"
)

type PaymentResponse struct {
	ID              string                 `json:"id"`
	ProjectID       string                 `json:"project_id"`
	Amount          float64                `json:"amount"`
	Date            time.Time              `json:"date"`
	Status          string                 `json:"status"`
	ProviderPayload map[string]interface{} `json:"provider_payload,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		Amount:          p.Amount,
		Date:            p.Date,
		Status:          string(p.Status),
		ProviderPayload: p.ProviderPayload,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
