package request

import (
	"strings"

	"marcenaria_pro/internal/domain/entities"
)

type ExpenseItemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	UnitValue float64 `json:"unit_value"`
}

// ProjectRequest is the payload for project creation and full updates. Stage
// state and frozen snapshots are never accepted here; they belong to the stage
// mutation endpoint.
type ProjectRequest struct {
	OwnerID     string `json:"owner_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	Description string `json:"description"`

	FixedExpenses    []ExpenseItemRequest `json:"fixed_expenses"`
	VariableExpenses []ExpenseItemRequest `json:"variable_expenses"`
	Materials        []ExpenseItemRequest `json:"materials"`

	UseWorkshopForFixedExpenses bool    `json:"use_workshop_for_fixed_expenses"`
	FixedExpenseDays            float64 `json:"fixed_expense_days"`

	PriceType    string  `json:"price_type"`
	ProfitMargin float64 `json:"profit_margin"`
	ApplyTax     bool    `json:"apply_tax"`

	EstimatedCompletionDate string `json:"estimated_completion_date"`
}

func (r ProjectRequest) ToEntity() entities.Project {
	return entities.Project{
		OwnerID:                     strings.TrimSpace(r.OwnerID),
		Name:                        strings.TrimSpace(r.Name),
		ClientID:                    strings.TrimSpace(r.ClientID),
		ClientName:                  strings.TrimSpace(r.ClientName),
		Description:                 r.Description,
		FixedExpenses:               toExpenseItems(r.FixedExpenses),
		VariableExpenses:            toExpenseItems(r.VariableExpenses),
		Materials:                   toExpenseItems(r.Materials),
		UseWorkshopForFixedExpenses: r.UseWorkshopForFixedExpenses,
		FixedExpenseDays:            r.FixedExpenseDays,
		PriceType:                   entities.PriceType(r.PriceType),
		ProfitMargin:                r.ProfitMargin,
		ApplyTax:                    r.ApplyTax,
		EstimatedCompletionDate:     strings.TrimSpace(r.EstimatedCompletionDate),
	}
}

func toExpenseItems(items []ExpenseItemRequest) []entities.ExpenseItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]entities.ExpenseItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ExpenseItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitValue: it.UnitValue,
		})
	}
	return out
}
