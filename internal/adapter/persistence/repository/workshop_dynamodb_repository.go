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

const defaultWorkshopTableName = "workshop_settings"

type workshopItem struct {
	OwnerID             string     `dynamodbav:"owner_id"`
	WorkshopName        string     `dynamodbav:"workshop_name,omitempty"`
	MonthlyExpenses     []lineItem `dynamodbav:"monthly_expenses,omitempty"`
	WorkingDaysPerMonth int        `dynamodbav:"working_days_per_month"`
	TaxPercentage       string     `dynamodbav:"tax_percentage"`
	UpdatedAt           string     `dynamodbav:"updated_at"`
}

// WorkshopDynamoRepository persists WorkshopSettings in DynamoDB.
//
// Table requirements:
//   - PK: owner_id (string), one settings record per owner
//
// Save is an unconditional put: the record is a singleton per owner and the
// last write wins.

type WorkshopDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IWorkshopSettingsRepository = (*WorkshopDynamoRepository)(nil)

func NewWorkshopDynamoRepository(ddb *dynamodb.Client) *WorkshopDynamoRepository {
	return &WorkshopDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("WORKSHOP_TABLE", defaultWorkshopTableName),
	}
}

func (r *WorkshopDynamoRepository) GetByOwner(ctx context.Context, ownerID string) (entities.WorkshopSettings, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"owner_id": &types.AttributeValueMemberS{Value: ownerID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.WorkshopSettings{}, err
	}
	if len(out.Item) == 0 {
		return entities.WorkshopSettings{}, nil
	}

	var it workshopItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.WorkshopSettings{}, err
	}
	return fromWorkshopItem(it), nil
}

func (r *WorkshopDynamoRepository) Save(ctx context.Context, s entities.WorkshopSettings) (entities.WorkshopSettings, error) {
	av, err := attributevalue.MarshalMap(toWorkshopItem(s))
	if err != nil {
		return entities.WorkshopSettings{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return entities.WorkshopSettings{}, err
	}
	return s, nil
}

func toWorkshopItem(s entities.WorkshopSettings) workshopItem {
	return workshopItem{
		OwnerID:             s.OwnerID,
		WorkshopName:        s.WorkshopName,
		MonthlyExpenses:     toLineItems(s.MonthlyExpenses),
		WorkingDaysPerMonth: s.WorkingDaysPerMonth,
		TaxPercentage:       floatToString(s.TaxPercentage),
		UpdatedAt:           timeToString(s.UpdatedAt),
	}
}

func fromWorkshopItem(it workshopItem) entities.WorkshopSettings {
	return entities.WorkshopSettings{
		OwnerID:             it.OwnerID,
		WorkshopName:        it.WorkshopName,
		MonthlyExpenses:     fromLineItems(it.MonthlyExpenses),
		WorkingDaysPerMonth: it.WorkingDaysPerMonth,
		TaxPercentage:       stringToFloat(it.TaxPercentage),
		UpdatedAt:           stringToTime(it.UpdatedAt),
	}
}
