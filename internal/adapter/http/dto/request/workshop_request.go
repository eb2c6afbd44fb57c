package request

import (
	"strings"

	"marcenaria_pro/internal/domain/entities"
)

type WorkshopSettingsRequest struct {
	OwnerID             string               `json:"owner_id" binding:"required"`
	WorkshopName        string               `json:"workshop_name"`
	MonthlyExpenses     []ExpenseItemRequest `json:"monthly_expenses"`
	WorkingDaysPerMonth int                  `json:"working_days_per_month"`
	TaxPercentage       float64              `json:"tax_percentage"`
}

func (r WorkshopSettingsRequest) ToEntity() entities.WorkshopSettings {
	return entities.WorkshopSettings{
		OwnerID:             strings.TrimSpace(r.OwnerID),
		WorkshopName:        strings.TrimSpace(r.WorkshopName),
		MonthlyExpenses:     toExpenseItems(r.MonthlyExpenses),
		WorkingDaysPerMonth: r.WorkingDaysPerMonth,
		TaxPercentage:       r.TaxPercentage,
	}
}
