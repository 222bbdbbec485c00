package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/electrodrive/catalog-api/internal/metrics"
	"github.com/electrodrive/catalog-api/internal/models"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

func record(store, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordStoreOperation(store, operation, status, time.Since(start))
}

// UserStore persists users in a DynamoDB table keyed by id, with an
// email-index GSI for the uniqueness lookup.
type UserStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserStore(client *dynamodb.Client, tableName string) *UserStore {
	return &UserStore{client: client, tableName: tableName}
}

// Create stores a new user. A user with the same email fails with a
// Conflict kind; same-moment duplicate writes are left to the table's
// conditional put on the primary key.
func (s *UserStore) Create(ctx context.Context, user *models.User) (err error) {
	defer func(start time.Time) { record("users", "put", start, err) }(time.Now())

	if _, err := s.FindByEmail(ctx, user.Email); err == nil {
		return apperrors.New(apperrors.CodeConflict, "a user with this email already exists")
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternalError, "marshal user failed", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, "put user failed", err)
	}

	return nil
}

// FindByEmail resolves a user through the email-index GSI.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (user *models.User, err error) {
	defer func(start time.Time) { record("users", "query", start, err) }(time.Now())

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "user query failed", err)
	}

	if len(result.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}

	var u models.User
	if err := attributevalue.UnmarshalMap(result.Items[0], &u); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "unmarshal user failed", err)
	}

	return &u, nil
}

// GetByID fetches a user by primary key.
func (s *UserStore) GetByID(ctx context.Context, id string) (user *models.User, err error) {
	defer func(start time.Time) { record("users", "get", start, err) }(time.Now())

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "get user failed", err)
	}

	if result.Item == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}

	var u models.User
	if err := attributevalue.UnmarshalMap(result.Item, &u); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "unmarshal user failed", err)
	}

	return &u, nil
}

// Ping verifies the users table is reachable.
func (s *UserStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s failed: %w", s.tableName, err)
	}
	return nil
}
