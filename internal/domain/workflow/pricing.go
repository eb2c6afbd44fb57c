package workflow

import "marcenaria_pro/internal/domain/entities"

// PricingInputs are the live workshop-settings figures. They are only consulted
// while the project has no frozen snapshot.
type PricingInputs struct {
	DailyCost     float64
	TaxPercentage float64
}

// PriceBreakdown is the fully derived pricing of a project.
type PriceBreakdown struct {
	FixedExpensesTotal    float64 `json:"fixed_expenses_total"`
	VariableExpensesTotal float64 `json:"variable_expenses_total"`
	MaterialsTotal        float64 `json:"materials_total"`
	TotalCost             float64 `json:"total_cost"`
	TaxAmount             float64 `json:"tax_amount"`
	CostWithTax           float64 `json:"cost_with_tax"`
	ProfitAmount          float64 `json:"profit_amount"`
	SalePriceNormal       float64 `json:"sale_price_normal"`
	MarkupFactor          float64 `json:"markup_factor"`
	SalePriceMarkup       float64 `json:"sale_price_markup"`
	FinalPrice            float64 `json:"final_price"`
	Frozen                bool    `json:"frozen"`
}

// FixedExpensesTotal resolves the effective fixed-expense total:
// manual line items when the project doesn't use workshop auto-calculation,
// otherwise frozen daily cost x days when the snapshot is set, otherwise the
// live daily cost x days.
func FixedExpensesTotal(p *entities.Project, liveDailyCost float64) float64 {
	if !p.UseWorkshopForFixedExpenses {
		return entities.SumItems(p.FixedExpenses)
	}
	if p.Stages.ProjetoTecnico.Completed && p.FrozenDailyCost != nil {
		return *p.FrozenDailyCost * p.FixedExpenseDays
	}
	return liveDailyCost * p.FixedExpenseDays
}

func compute(p *entities.Project, dailyCost, taxPercentage float64, applyTax bool) PriceBreakdown {
	bd := PriceBreakdown{
		VariableExpensesTotal: entities.SumItems(p.VariableExpenses),
		MaterialsTotal:        entities.SumItems(p.Materials),
	}
	if p.UseWorkshopForFixedExpenses {
		bd.FixedExpensesTotal = dailyCost * p.FixedExpenseDays
	} else {
		bd.FixedExpensesTotal = entities.SumItems(p.FixedExpenses)
	}

	bd.TotalCost = bd.FixedExpensesTotal + bd.VariableExpensesTotal + bd.MaterialsTotal
	if applyTax {
		bd.TaxAmount = bd.TotalCost * taxPercentage / 100
	}
	bd.CostWithTax = bd.TotalCost + bd.TaxAmount

	if p.ProfitMargin != 0 && p.ProfitMargin < 100 {
		bd.ProfitAmount = bd.CostWithTax * p.ProfitMargin / (100 - p.ProfitMargin)
	}
	bd.SalePriceNormal = bd.CostWithTax + bd.ProfitAmount

	// The markup ratio is taken against the normal sale price, not the cost.
	bd.MarkupFactor = 1
	if bd.MaterialsTotal > 0 {
		bd.MarkupFactor = bd.SalePriceNormal / bd.MaterialsTotal
	}
	bd.SalePriceMarkup = bd.TotalCost * bd.MarkupFactor

	if p.PriceType == entities.PriceTypeMarkup {
		bd.FinalPrice = bd.SalePriceMarkup
	} else {
		bd.FinalPrice = bd.SalePriceNormal
	}
	return bd
}

// Price derives the full breakdown. While the frozen snapshot is in effect the
// daily cost, tax configuration, tax amount and final price all come from the
// snapshot, making quoted pricing immune to later workshop-settings changes.
func Price(p *entities.Project, in PricingInputs) PriceBreakdown {
	dailyCost := in.DailyCost
	taxPercentage := in.TaxPercentage
	applyTax := p.ApplyTax

	frozen := p.Frozen()
	if frozen {
		if p.FrozenDailyCost != nil {
			dailyCost = *p.FrozenDailyCost
		}
		if p.FrozenTaxPercentage != nil {
			taxPercentage = *p.FrozenTaxPercentage
		}
		if p.FrozenApplyTax != nil {
			applyTax = *p.FrozenApplyTax
		}
	}

	bd := compute(p, dailyCost, taxPercentage, applyTax)
	if frozen {
		bd.TaxAmount = *p.FrozenTaxAmount
		bd.FinalPrice = *p.FrozenFinalPrice
		bd.Frozen = true
	}
	return bd
}

// Freeze captures the snapshot fields at pivot completion, using the cost total
// as it stands at this instant. The daily cost is only captured when the project
// auto-derives fixed expenses from the workshop settings.
func Freeze(p *entities.Project, in PricingInputs) {
	if p.UseWorkshopForFixedExpenses {
		dc := in.DailyCost
		p.FrozenDailyCost = &dc
	}

	taxPct := in.TaxPercentage
	applyTax := p.ApplyTax
	p.FrozenTaxPercentage = &taxPct
	p.FrozenApplyTax = &applyTax

	bd := compute(p, in.DailyCost, in.TaxPercentage, p.ApplyTax)
	taxAmount := bd.TaxAmount
	finalPrice := bd.FinalPrice
	p.FrozenTaxAmount = &taxAmount
	p.FrozenFinalPrice = &finalPrice
}

// Unfreeze clears the snapshot; subsequent reads fall back to live workshop
// settings.
func Unfreeze(p *entities.Project) {
	p.FrozenDailyCost = nil
	p.FrozenTaxPercentage = nil
	p.FrozenApplyTax = nil
	p.FrozenTaxAmount = nil
	p.FrozenFinalPrice = nil
}
