package response

import (
	"time"

	"marcenaria_pro/internal/domain/entities"
)

type WorkshopSettingsResponse struct {
	OwnerID             string                `json:"owner_id"`
	WorkshopName        string                `json:"workshop_name,omitempty"`
	MonthlyExpenses     []ExpenseItemResponse `json:"monthly_expenses"`
	WorkingDaysPerMonth int                   `json:"working_days_per_month"`
	TaxPercentage       float64               `json:"tax_percentage"`
	DailyCost           float64               `json:"daily_cost"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func FromWorkshopSettings(s entities.WorkshopSettings) WorkshopSettingsResponse {
	return WorkshopSettingsResponse{
		OwnerID:             s.OwnerID,
		WorkshopName:        s.WorkshopName,
		MonthlyExpenses:     fromExpenseItems(s.MonthlyExpenses),
		WorkingDaysPerMonth: s.WorkingDaysPerMonth,
		TaxPercentage:       s.TaxPercentage,
		DailyCost:           s.DailyCost(),
		UpdatedAt:           s.UpdatedAt,
	}
}
