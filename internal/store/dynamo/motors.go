package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/electrodrive/catalog-api/internal/models"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

// MotorStore persists catalog entries in a DynamoDB table keyed by id.
// Listing scans the table and applies the filter predicates in process:
// the substring filters are case-insensitive, which DynamoDB's
// contains() cannot express.
type MotorStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewMotorStore(client *dynamodb.Client, tableName string) *MotorStore {
	return &MotorStore{client: client, tableName: tableName}
}

func (s *MotorStore) scan(ctx context.Context, keep func(*models.Motor) bool) ([]models.Motor, error) {
	var motors []models.Motor

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeUnavailable, "motor scan failed", err)
		}

		var batch []models.Motor
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternalError, "unmarshal motors failed", err)
		}

		for i := range batch {
			if keep(&batch[i]) {
				motors = append(motors, batch[i])
			}
		}
	}

	// Scan order is undefined; keep listings stable across pages.
	sort.SliceStable(motors, func(i, j int) bool {
		if motors[i].CreatedAt.Equal(motors[j].CreatedAt) {
			return motors[i].ID < motors[j].ID
		}
		return motors[i].CreatedAt.Before(motors[j].CreatedAt)
	})

	return motors, nil
}

// List returns every entry satisfying the filter, ordered by creation time.
func (s *MotorStore) List(ctx context.Context, filter *models.MotorFilter) (motors []models.Motor, err error) {
	defer func(start time.Time) { record("motors", "scan", start, err) }(time.Now())

	return s.scan(ctx, filter.Matches)
}

// Search returns every entry whose name, model or description contains keyword.
func (s *MotorStore) Search(ctx context.Context, keyword string) (motors []models.Motor, err error) {
	defer func(start time.Time) { record("motors", "scan", start, err) }(time.Now())

	return s.scan(ctx, func(m *models.Motor) bool {
		return m.MatchesKeyword(keyword)
	})
}

// Get fetches an entry by primary key.
func (s *MotorStore) Get(ctx context.Context, id string) (motor *models.Motor, err error) {
	defer func(start time.Time) { record("motors", "get", start, err) }(time.Now())

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "get motor failed", err)
	}

	if result.Item == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "motor not found")
	}

	var m models.Motor
	if err := attributevalue.UnmarshalMap(result.Item, &m); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "unmarshal motor failed", err)
	}

	return &m, nil
}

// Create stores a new entry.
func (s *MotorStore) Create(ctx context.Context, motor *models.Motor) (err error) {
	defer func(start time.Time) { record("motors", "put", start, err) }(time.Now())

	item, err := attributevalue.MarshalMap(motor)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternalError, "marshal motor failed", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, "put motor failed", err)
	}

	return nil
}

// Update replaces an existing entry; a missing id is a NotFound.
func (s *MotorStore) Update(ctx context.Context, motor *models.Motor) (err error) {
	defer func(start time.Time) { record("motors", "put", start, err) }(time.Now())

	item, err := attributevalue.MarshalMap(motor)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternalError, "marshal motor failed", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return apperrors.New(apperrors.CodeNotFound, "motor not found")
		}
		return apperrors.Wrap(apperrors.CodeUnavailable, "update motor failed", err)
	}

	return nil
}

// Delete removes an entry; a missing id is a NotFound.
func (s *MotorStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { record("motors", "delete", start, err) }(time.Now())

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return apperrors.New(apperrors.CodeNotFound, "motor not found")
		}
		return apperrors.Wrap(apperrors.CodeUnavailable, "delete motor failed", err)
	}

	return nil
}

// Ping verifies the motors table is reachable.
func (s *MotorStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s failed: %w", s.tableName, err)
	}
	return nil
}
