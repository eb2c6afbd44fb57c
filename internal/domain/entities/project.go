package entities

import "time"

// StageID identifies one of the ten stages of a carpentry project.
//
// Domain notes:
//   - Stages orcamento..instalacao form the linear production sequence.
//   - projetoTecnico is the pivot: completing it freezes cost/price snapshots.
//   - projetoCancelado is an out-of-band terminal branch, not part of the sequence.

type StageID string

const (
	StageOrcamento        StageID = "orcamento"
	StageProjetoTecnico   StageID = "projetoTecnico"
	StageCorte            StageID = "corte"
	StageFitamento        StageID = "fitamento"
	StageFuracaoUsinagem  StageID = "furacaoUsinagem"
	StagePreMontagem      StageID = "preMontagem"
	StageAcabamento       StageID = "acabamento"
	StageEntrega          StageID = "entrega"
	StageInstalacao       StageID = "instalacao"
	StageProjetoCancelado StageID = "projetoCancelado"
)

// StageSequence is the linear production order. projetoCancelado is excluded on
// purpose: it never participates in ordering rules.
var StageSequence = []StageID{
	StageOrcamento,
	StageProjetoTecnico,
	StageCorte,
	StageFitamento,
	StageFuracaoUsinagem,
	StagePreMontagem,
	StageAcabamento,
	StageEntrega,
	StageInstalacao,
}

// PivotIndex is the position of projetoTecnico in StageSequence.
const PivotIndex = 1

// SequenceIndex returns the position of id in StageSequence, or -1 for
// projetoCancelado and unknown ids.
func SequenceIndex(id StageID) int {
	for i, s := range StageSequence {
		if s == id {
			return i
		}
	}
	return -1
}

// PriceType selects how the final sale price is derived.

type PriceType string

const (
	PriceTypeNormal PriceType = "normal"
	PriceTypeMarkup PriceType = "markup"
)

// ProjectStage holds the mutable state of a single stage slot.
//
//   - Date is stamped automatically the first time Completed flips to true and is
//     never cleared by un-completing; only an explicit edit changes it afterwards.
//   - CancellationReason only carries meaning on projetoCancelado.
//   - RealCost and the completion-notes pair only carry meaning on instalacao.
type ProjectStage struct {
	Completed          bool       `json:"completed"`
	Date               *time.Time `json:"date,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	RealCost           *float64   `json:"real_cost,omitempty"`
	HasCompletionNotes bool       `json:"has_completion_notes,omitempty"`
	CompletionNotes    string     `json:"completion_notes,omitempty"`
}

// ProjectStages is the fixed ten-slot stage mapping of a project.
type ProjectStages struct {
	Orcamento        ProjectStage `json:"orcamento"`
	ProjetoTecnico   ProjectStage `json:"projeto_tecnico"`
	Corte            ProjectStage `json:"corte"`
	Fitamento        ProjectStage `json:"fitamento"`
	FuracaoUsinagem  ProjectStage `json:"furacao_usinagem"`
	PreMontagem      ProjectStage `json:"pre_montagem"`
	Acabamento       ProjectStage `json:"acabamento"`
	Entrega          ProjectStage `json:"entrega"`
	Instalacao       ProjectStage `json:"instalacao"`
	ProjetoCancelado ProjectStage `json:"projeto_cancelado"`
}

// ByID returns a pointer into the stage slot for id, or nil for unknown ids.
func (s *ProjectStages) ByID(id StageID) *ProjectStage {
	switch id {
	case StageOrcamento:
		return &s.Orcamento
	case StageProjetoTecnico:
		return &s.ProjetoTecnico
	case StageCorte:
		return &s.Corte
	case StageFitamento:
		return &s.Fitamento
	case StageFuracaoUsinagem:
		return &s.FuracaoUsinagem
	case StagePreMontagem:
		return &s.PreMontagem
	case StageAcabamento:
		return &s.Acabamento
	case StageEntrega:
		return &s.Entrega
	case StageInstalacao:
		return &s.Instalacao
	case StageProjetoCancelado:
		return &s.ProjetoCancelado
	}
	return nil
}

// ExpenseItem is a generic quantity x unit-value line item used for fixed
// expenses, variable expenses and materials alike.
type ExpenseItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitValue float64 `json:"unit_value"`
}

// Total is quantity x unit value.
func (i ExpenseItem) Total() float64 {
	return i.Quantity * i.UnitValue
}

// SumItems totals a line-item collection.
func SumItems(items []ExpenseItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Total()
	}
	return total
}

// Project is the aggregate persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (owner_id-index): owner_id
//
// Frozen snapshot fields:
//   - All Frozen* fields are captured atomically when projetoTecnico completes and
//     cleared together when it is un-completed. While set, pricing reads the
//     snapshot instead of live workshop settings.
type Project struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	Description string `json:"description,omitempty"`

	Stages ProjectStages `json:"stages"`

	FixedExpenses    []ExpenseItem `json:"fixed_expenses"`
	VariableExpenses []ExpenseItem `json:"variable_expenses"`
	Materials        []ExpenseItem `json:"materials"`

	UseWorkshopForFixedExpenses bool    `json:"use_workshop_for_fixed_expenses"`
	FixedExpenseDays            float64 `json:"fixed_expense_days"`

	PriceType    PriceType `json:"price_type"`
	ProfitMargin float64   `json:"profit_margin"`
	ApplyTax     bool      `json:"apply_tax"`

	FrozenDailyCost     *float64 `json:"frozen_daily_cost,omitempty"`
	FrozenTaxPercentage *float64 `json:"frozen_tax_percentage,omitempty"`
	FrozenApplyTax      *bool    `json:"frozen_apply_tax,omitempty"`
	FrozenTaxAmount     *float64 `json:"frozen_tax_amount,omitempty"`
	FrozenFinalPrice    *float64 `json:"frozen_final_price,omitempty"`

	EstimatedCompletionDate string `json:"estimated_completion_date,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// Frozen reports whether the pivot snapshot is in effect.
func (p *Project) Frozen() bool {
	return p.Stages.ProjetoTecnico.Completed && p.FrozenFinalPrice != nil
}
