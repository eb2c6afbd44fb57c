package entities

import "time"

// WorkshopSettings holds the per-owner workshop configuration used to derive the
// daily fixed-cost figure applied to projects that don't enter expenses manually.
//
// Storage model (DynamoDB):
//   - PK: owner_id (one settings record per owner)
type WorkshopSettings struct {
	OwnerID             string        `json:"owner_id"`
	WorkshopName        string        `json:"workshop_name,omitempty"`
	MonthlyExpenses     []ExpenseItem `json:"monthly_expenses"`
	WorkingDaysPerMonth int           `json:"working_days_per_month"`
	TaxPercentage       float64       `json:"tax_percentage"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// DailyCost is the monthly expense total divided by working days per month, or 0
// when either the expense list is empty or the denominator is zero.
func (w WorkshopSettings) DailyCost() float64 {
	if len(w.MonthlyExpenses) == 0 || w.WorkingDaysPerMonth <= 0 {
		return 0
	}
	return SumItems(w.MonthlyExpenses) / float64(w.WorkingDaysPerMonth)
}
