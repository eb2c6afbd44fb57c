package response

import (
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/domain/workflow"
)

type StageResponse struct {
	Completed          bool       `json:"completed"`
	Date               *time.Time `json:"date,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	RealCost           *float64   `json:"real_cost,omitempty"`
	HasCompletionNotes bool       `json:"has_completion_notes,omitempty"`
	CompletionNotes    string     `json:"completion_notes,omitempty"`
}

type StagesResponse struct {
	Orcamento        StageResponse `json:"orcamento"`
	ProjetoTecnico   StageResponse `json:"projeto_tecnico"`
	Corte            StageResponse `json:"corte"`
	Fitamento        StageResponse `json:"fitamento"`
	FuracaoUsinagem  StageResponse `json:"furacao_usinagem"`
	PreMontagem      StageResponse `json:"pre_montagem"`
	Acabamento       StageResponse `json:"acabamento"`
	Entrega          StageResponse `json:"entrega"`
	Instalacao       StageResponse `json:"instalacao"`
	ProjetoCancelado StageResponse `json:"projeto_cancelado"`
}

type ExpenseItemResponse struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitValue float64 `json:"unit_value"`
	Total     float64 `json:"total"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	ClientID    string `json:"client_id,omitempty"`
	ClientName  string `json:"client_name"`
	Description string `json:"description,omitempty"`

	Stages StagesResponse `json:"stages"`

	FixedExpenses    []ExpenseItemResponse `json:"fixed_expenses"`
	VariableExpenses []ExpenseItemResponse `json:"variable_expenses"`
	Materials        []ExpenseItemResponse `json:"materials"`

	UseWorkshopForFixedExpenses bool    `json:"use_workshop_for_fixed_expenses"`
	FixedExpenseDays            float64 `json:"fixed_expense_days"`

	PriceType    string  `json:"price_type"`
	ProfitMargin float64 `json:"profit_margin"`
	ApplyTax     bool    `json:"apply_tax"`

	Frozen              bool     `json:"frozen"`
	FrozenDailyCost     *float64 `json:"frozen_daily_cost,omitempty"`
	FrozenTaxPercentage *float64 `json:"frozen_tax_percentage,omitempty"`
	FrozenFinalPrice    *float64 `json:"frozen_final_price,omitempty"`

	EstimatedCompletionDate string `json:"estimated_completion_date,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

func fromStage(s entities.ProjectStage) StageResponse {
	return StageResponse{
		Completed:          s.Completed,
		Date:               s.Date,
		CancellationReason: s.CancellationReason,
		RealCost:           s.RealCost,
		HasCompletionNotes: s.HasCompletionNotes,
		CompletionNotes:    s.CompletionNotes,
	}
}

func fromExpenseItems(items []entities.ExpenseItem) []ExpenseItemResponse {
	out := make([]ExpenseItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ExpenseItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitValue: it.UnitValue,
			Total:     it.Total(),
		})
	}
	return out
}

func FromProject(p entities.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		ClientID:    p.ClientID,
		ClientName:  p.ClientName,
		Description: p.Description,
		Stages: StagesResponse{
			Orcamento:        fromStage(p.Stages.Orcamento),
			ProjetoTecnico:   fromStage(p.Stages.ProjetoTecnico),
			Corte:            fromStage(p.Stages.Corte),
			Fitamento:        fromStage(p.Stages.Fitamento),
			FuracaoUsinagem:  fromStage(p.Stages.FuracaoUsinagem),
			PreMontagem:      fromStage(p.Stages.PreMontagem),
			Acabamento:       fromStage(p.Stages.Acabamento),
			Entrega:          fromStage(p.Stages.Entrega),
			Instalacao:       fromStage(p.Stages.Instalacao),
			ProjetoCancelado: fromStage(p.Stages.ProjetoCancelado),
		},
		FixedExpenses:               fromExpenseItems(p.FixedExpenses),
		VariableExpenses:            fromExpenseItems(p.VariableExpenses),
		Materials:                   fromExpenseItems(p.Materials),
		UseWorkshopForFixedExpenses: p.UseWorkshopForFixedExpenses,
		FixedExpenseDays:            p.FixedExpenseDays,
		PriceType:                   string(p.PriceType),
		ProfitMargin:                p.ProfitMargin,
		ApplyTax:                    p.ApplyTax,
		Frozen:                      p.Frozen(),
		FrozenDailyCost:             p.FrozenDailyCost,
		FrozenTaxPercentage:         p.FrozenTaxPercentage,
		FrozenFinalPrice:            p.FrozenFinalPrice,
		EstimatedCompletionDate:     p.EstimatedCompletionDate,
		CreatedAt:                   p.CreatedAt,
		LastModified:                p.LastModified,
	}
}

func FromProjects(projects []entities.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}

// PriceBreakdownResponse re-exports the pricing figures with the project id
// attached.
type PriceBreakdownResponse struct {
	ProjectID string                  `json:"project_id"`
	Breakdown workflow.PriceBreakdown `json:"breakdown"`
}
