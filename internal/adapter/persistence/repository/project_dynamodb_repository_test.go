package repository

import (
	"reflect"
	"testing"
	"time"

	"marcenaria_pro/internal/domain/entities"
)

func TestProjectItemRoundTrip(t *testing.T) {
	date := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	realCost := 1234.56
	dailyCost := 150.0
	taxPct := 8.5
	applyTax := true
	taxAmount := 127.5
	finalPrice := 2062.5

	p := entities.Project{
		ID:          "p-1",
		OwnerID:     "owner-1",
		Name:        "Cozinha planejada",
		ClientID:    "c-1",
		ClientName:  "Maria",
		Description: "MDF branco",
		Stages: entities.ProjectStages{
			Orcamento:      entities.ProjectStage{Completed: true, Date: &date},
			ProjetoTecnico: entities.ProjectStage{Completed: true, Date: &date},
			Instalacao: entities.ProjectStage{
				RealCost:           &realCost,
				HasCompletionNotes: true,
				CompletionNotes:    "ajuste na porta",
			},
			ProjetoCancelado: entities.ProjectStage{CancellationReason: ""},
		},
		FixedExpenses:               []entities.ExpenseItem{{ID: "f-1", Name: "aluguel", Quantity: 1, UnitValue: 2000}},
		VariableExpenses:            []entities.ExpenseItem{{Name: "frete", Quantity: 2, UnitValue: 150.75}},
		Materials:                   []entities.ExpenseItem{{Name: "mdf", Quantity: 3.5, UnitValue: 289.9}},
		UseWorkshopForFixedExpenses: true,
		FixedExpenseDays:            12.5,
		PriceType:                   entities.PriceTypeMarkup,
		ProfitMargin:                20,
		ApplyTax:                    true,
		FrozenDailyCost:             &dailyCost,
		FrozenTaxPercentage:         &taxPct,
		FrozenApplyTax:              &applyTax,
		FrozenTaxAmount:             &taxAmount,
		FrozenFinalPrice:            &finalPrice,
		EstimatedCompletionDate:     "2026-05-01",
		CreatedAt:                   date,
		LastModified:                date.Add(time.Hour),
	}

	got := fromProjectItem(toProjectItem(p))
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestProjectItemRoundTrip_EmptyProject(t *testing.T) {
	p := entities.Project{
		ID:        "p-2",
		OwnerID:   "owner-1",
		Name:      "Painel",
		PriceType: entities.PriceTypeNormal,
	}

	got := fromProjectItem(toProjectItem(p))
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
	if got.FrozenDailyCost != nil || got.FrozenFinalPrice != nil {
		t.Fatalf("empty project must not grow a snapshot")
	}
}

func TestPaymentItemRoundTrip(t *testing.T) {
	p := entities.Payment{
		ID:                 "mp-123",
		ProjectID:          "p-1",
		Amount:             2062.5,
		Date:               time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC),
		Status:             entities.PaymentStatusAprovado,
		ProviderPayloadRaw: []byte(`{"id":"mp-123","status":"approved"}`),
		ProviderPayload:    map[string]interface{}{"id": "mp-123", "status": "approved"},
	}

	got := fromPaymentItem(toPaymentItem(p))
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}
