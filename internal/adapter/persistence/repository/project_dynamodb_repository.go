package repository

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultProjectsTableName = "projects"
	projectsOwnerIDIndex     = "owner_id-index"
)

type stageItem struct {
	Completed          bool    `dynamodbav:"completed"`
	Date               *string `dynamodbav:"date,omitempty"`
	CancellationReason string  `dynamodbav:"cancellation_reason,omitempty"`
	RealCost           *string `dynamodbav:"real_cost,omitempty"`
	HasCompletionNotes bool    `dynamodbav:"has_completion_notes,omitempty"`
	CompletionNotes    string  `dynamodbav:"completion_notes,omitempty"`
}

type stagesItem struct {
	Orcamento        stageItem `dynamodbav:"orcamento"`
	ProjetoTecnico   stageItem `dynamodbav:"projeto_tecnico"`
	Corte            stageItem `dynamodbav:"corte"`
	Fitamento        stageItem `dynamodbav:"fitamento"`
	FuracaoUsinagem  stageItem `dynamodbav:"furacao_usinagem"`
	PreMontagem      stageItem `dynamodbav:"pre_montagem"`
	Acabamento       stageItem `dynamodbav:"acabamento"`
	Entrega          stageItem `dynamodbav:"entrega"`
	Instalacao       stageItem `dynamodbav:"instalacao"`
	ProjetoCancelado stageItem `dynamodbav:"projeto_cancelado"`
}

type lineItem struct {
	ID        string `dynamodbav:"id,omitempty"`
	Name      string `dynamodbav:"name"`
	Quantity  string `dynamodbav:"quantity"`
	UnitValue string `dynamodbav:"unit_value"`
}

type projectItem struct {
	ID          string `dynamodbav:"id"`
	OwnerID     string `dynamodbav:"owner_id"`
	Name        string `dynamodbav:"name"`
	ClientID    string `dynamodbav:"client_id,omitempty"`
	ClientName  string `dynamodbav:"client_name"`
	Description string `dynamodbav:"description,omitempty"`

	Stages stagesItem `dynamodbav:"stages"`

	FixedExpenses    []lineItem `dynamodbav:"fixed_expenses,omitempty"`
	VariableExpenses []lineItem `dynamodbav:"variable_expenses,omitempty"`
	Materials        []lineItem `dynamodbav:"materials,omitempty"`

	UseWorkshopForFixedExpenses bool   `dynamodbav:"use_workshop_for_fixed_expenses"`
	FixedExpenseDays            string `dynamodbav:"fixed_expense_days"`

	PriceType    string `dynamodbav:"price_type"`
	ProfitMargin string `dynamodbav:"profit_margin"`
	ApplyTax     bool   `dynamodbav:"apply_tax"`

	FrozenDailyCost     *string `dynamodbav:"frozen_daily_cost,omitempty"`
	FrozenTaxPercentage *string `dynamodbav:"frozen_tax_percentage,omitempty"`
	FrozenApplyTax      *bool   `dynamodbav:"frozen_apply_tax,omitempty"`
	FrozenTaxAmount     *string `dynamodbav:"frozen_tax_amount,omitempty"`
	FrozenFinalPrice    *string `dynamodbav:"frozen_final_price,omitempty"`

	EstimatedCompletionDate string `dynamodbav:"estimated_completion_date,omitempty"`

	CreatedAt    string `dynamodbav:"created_at"`
	LastModified string `dynamodbav:"last_modified"`
}

// ProjectDynamoRepository persists Project aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: owner_id-index (PK: owner_id)
//
// The aggregate is written whole on every update: stage state, line items and
// the frozen snapshot always travel together, so a partial update expression
// could only tear them apart.

type ProjectDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IProjectRepository = (*ProjectDynamoRepository)(nil)

func NewProjectDynamoRepository(ddb *dynamodb.Client) *ProjectDynamoRepository {
	return &ProjectDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PROJECTS_TABLE", defaultProjectsTableName),
	}
}

func (r *ProjectDynamoRepository) Create(ctx context.Context, p entities.Project) (entities.Project, error) {
	av, err := attributevalue.MarshalMap(toProjectItem(p))
	if err != nil {
		return entities.Project{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Project{}, err
	}
	return p, nil
}

func (r *ProjectDynamoRepository) GetByID(ctx context.Context, id string) (entities.Project, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Project{}, err
	}
	if len(out.Item) == 0 {
		return entities.Project{}, nil
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

func (r *ProjectDynamoRepository) Update(ctx context.Context, p entities.Project) (entities.Project, error) {
	av, err := attributevalue.MarshalMap(toProjectItem(p))
	if err != nil {
		return entities.Project{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Project{}, err
	}
	return p, nil
}

func (r *ProjectDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

func (r *ProjectDynamoRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Project, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(projectsOwnerIDIndex),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	if err != nil {
		return nil, err
	}

	projects := make([]entities.Project, 0, len(out.Items))
	for _, raw := range out.Items {
		var it projectItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		projects = append(projects, fromProjectItem(it))
	}
	return projects, nil
}

func toStageItem(s entities.ProjectStage) stageItem {
	return stageItem{
		Completed:          s.Completed,
		Date:               timePtrToString(s.Date),
		CancellationReason: s.CancellationReason,
		RealCost:           floatPtrToString(s.RealCost),
		HasCompletionNotes: s.HasCompletionNotes,
		CompletionNotes:    s.CompletionNotes,
	}
}

func fromStageItem(it stageItem) entities.ProjectStage {
	return entities.ProjectStage{
		Completed:          it.Completed,
		Date:               stringPtrToTime(it.Date),
		CancellationReason: it.CancellationReason,
		RealCost:           stringPtrToFloat(it.RealCost),
		HasCompletionNotes: it.HasCompletionNotes,
		CompletionNotes:    it.CompletionNotes,
	}
}

func toLineItems(items []entities.ExpenseItem) []lineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]lineItem, 0, len(items))
	for _, it := range items {
		out = append(out, lineItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  floatToString(it.Quantity),
			UnitValue: floatToString(it.UnitValue),
		})
	}
	return out
}

func fromLineItems(items []lineItem) []entities.ExpenseItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]entities.ExpenseItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ExpenseItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  stringToFloat(it.Quantity),
			UnitValue: stringToFloat(it.UnitValue),
		})
	}
	return out
}

func toProjectItem(p entities.Project) projectItem {
	return projectItem{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		ClientID:    p.ClientID,
		ClientName:  p.ClientName,
		Description: p.Description,
		Stages: stagesItem{
			Orcamento:        toStageItem(p.Stages.Orcamento),
			ProjetoTecnico:   toStageItem(p.Stages.ProjetoTecnico),
			Corte:            toStageItem(p.Stages.Corte),
			Fitamento:        toStageItem(p.Stages.Fitamento),
			FuracaoUsinagem:  toStageItem(p.Stages.FuracaoUsinagem),
			PreMontagem:      toStageItem(p.Stages.PreMontagem),
			Acabamento:       toStageItem(p.Stages.Acabamento),
			Entrega:          toStageItem(p.Stages.Entrega),
			Instalacao:       toStageItem(p.Stages.Instalacao),
			ProjetoCancelado: toStageItem(p.Stages.ProjetoCancelado),
		},
		FixedExpenses:               toLineItems(p.FixedExpenses),
		VariableExpenses:            toLineItems(p.VariableExpenses),
		Materials:                   toLineItems(p.Materials),
		UseWorkshopForFixedExpenses: p.UseWorkshopForFixedExpenses,
		FixedExpenseDays:            floatToString(p.FixedExpenseDays),
		PriceType:                   string(p.PriceType),
		ProfitMargin:                floatToString(p.ProfitMargin),
		ApplyTax:                    p.ApplyTax,
		FrozenDailyCost:             floatPtrToString(p.FrozenDailyCost),
		FrozenTaxPercentage:         floatPtrToString(p.FrozenTaxPercentage),
		FrozenApplyTax:              p.FrozenApplyTax,
		FrozenTaxAmount:             floatPtrToString(p.FrozenTaxAmount),
		FrozenFinalPrice:            floatPtrToString(p.FrozenFinalPrice),
		EstimatedCompletionDate:     p.EstimatedCompletionDate,
		CreatedAt:                   timeToString(p.CreatedAt),
		LastModified:                timeToString(p.LastModified),
	}
}

func fromProjectItem(it projectItem) entities.Project {
	return entities.Project{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		ClientID:    it.ClientID,
		ClientName:  it.ClientName,
		Description: it.Description,
		Stages: entities.ProjectStages{
			Orcamento:        fromStageItem(it.Stages.Orcamento),
			ProjetoTecnico:   fromStageItem(it.Stages.ProjetoTecnico),
			Corte:            fromStageItem(it.Stages.Corte),
			Fitamento:        fromStageItem(it.Stages.Fitamento),
			FuracaoUsinagem:  fromStageItem(it.Stages.FuracaoUsinagem),
			PreMontagem:      fromStageItem(it.Stages.PreMontagem),
			Acabamento:       fromStageItem(it.Stages.Acabamento),
			Entrega:          fromStageItem(it.Stages.Entrega),
			Instalacao:       fromStageItem(it.Stages.Instalacao),
			ProjetoCancelado: fromStageItem(it.Stages.ProjetoCancelado),
		},
		FixedExpenses:               fromLineItems(it.FixedExpenses),
		VariableExpenses:            fromLineItems(it.VariableExpenses),
		Materials:                   fromLineItems(it.Materials),
		UseWorkshopForFixedExpenses: it.UseWorkshopForFixedExpenses,
		FixedExpenseDays:            stringToFloat(it.FixedExpenseDays),
		PriceType:                   entities.PriceType(it.PriceType),
		ProfitMargin:                stringToFloat(it.ProfitMargin),
		ApplyTax:                    it.ApplyTax,
		FrozenDailyCost:             stringPtrToFloat(it.FrozenDailyCost),
		FrozenTaxPercentage:         stringPtrToFloat(it.FrozenTaxPercentage),
		FrozenApplyTax:              it.FrozenApplyTax,
		FrozenTaxAmount:             stringPtrToFloat(it.FrozenTaxAmount),
		FrozenFinalPrice:            stringPtrToFloat(it.FrozenFinalPrice),
		EstimatedCompletionDate:     it.EstimatedCompletionDate,
		CreatedAt:                   stringToTime(it.CreatedAt),
		LastModified:                stringToTime(it.LastModified),
	}
}
