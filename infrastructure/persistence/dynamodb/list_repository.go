package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"lists-ms/application/ports"
	"lists-ms/domain/lists"
	"lists-ms/pkg/observability"
)

// ListRepository implements ports.ListRepository on the Lists table
type ListRepository struct {
	client    DynamoDBAPI
	tableName string
	userIndex string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewListRepository creates a new ListRepository
func NewListRepository(client DynamoDBAPI, tables Tables, collector *observability.Collector, logger *zap.Logger) *ListRepository {
	return &ListRepository{
		client:    client,
		tableName: tables.Lists,
		userIndex: tables.ListsUserIndex,
		collector: collector,
		logger:    logger,
	}
}

// listItem represents the DynamoDB item structure for a list
type listItem struct {
	ID     string        `dynamodbav:"id"`
	UserID string        `dynamodbav:"userId"`
	Name   string        `dynamodbav:"name"`
	Order  int           `dynamodbav:"order"`
	Tasks  []interface{} `dynamodbav:"tasks"`
}

func (i listItem) toDomain() *lists.List {
	tasks := i.Tasks
	if tasks == nil {
		tasks = []interface{}{}
	}
	return &lists.List{
		ID:     i.ID,
		UserID: i.UserID,
		Name:   i.Name,
		Order:  i.Order,
		Tasks:  tasks,
	}
}

// listStartKey is the exclusive start key of an owner-index query. The
// index key and the table key are both required.
type listStartKey struct {
	ID     string `dynamodbav:"id"`
	UserID string `dynamodbav:"userId"`
}

// Save writes the list record wholesale
func (r *ListRepository) Save(ctx context.Context, list *lists.List) error {
	tasks := list.Tasks
	if tasks == nil {
		tasks = []interface{}{}
	}
	item := listItem{
		ID:     list.ID,
		UserID: list.UserID,
		Name:   list.Name,
		Order:  list.Order,
		Tasks:  tasks,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}

	start := time.Now()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return observe(r.collector, "PutItem", r.tableName, start, err)
}

// GetByID retrieves a list by its ID
func (r *ListRepository) GetByID(ctx context.Context, id string) (*lists.List, error) {
	start := time.Now()
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			attrID: &types.AttributeValueMemberS{Value: id},
		},
	})
	if err := observe(r.collector, "GetItem", r.tableName, start, err); err != nil {
		return nil, err
	}

	if len(result.Item) == 0 {
		return nil, lists.ErrListNotFound
	}

	var item listItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return item.toDomain(), nil
}

// Delete removes a list by ID. Child tasks are not touched.
func (r *ListRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			attrID: &types.AttributeValueMemberS{Value: id},
		},
	})
	return observe(r.collector, "DeleteItem", r.tableName, start, err)
}

// QueryByUser reads one page of the owner index
func (r *ListRepository) QueryByUser(ctx context.Context, userID string, limit int, startToken string) (ports.ListPage, error) {
	keyCond := expression.Key(attrUserID).Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return ports.ListPage{}, fmt.Errorf("failed to build owner query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.userIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	if startToken != "" {
		key, err := attributevalue.MarshalMap(listStartKey{ID: startToken, UserID: userID})
		if err != nil {
			return ports.ListPage{}, fmt.Errorf("failed to marshal start key: %w", err)
		}
		input.ExclusiveStartKey = key
	}

	start := time.Now()
	result, err := r.client.Query(ctx, input)
	if err := observe(r.collector, "Query", r.userIndex, start, err); err != nil {
		return ports.ListPage{}, err
	}

	var items []listItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return ports.ListPage{}, fmt.Errorf("failed to unmarshal lists: %w", err)
	}

	page := ports.ListPage{Lists: make([]*lists.List, 0, len(items))}
	for _, item := range items {
		page.Lists = append(page.Lists, item.toDomain())
	}

	if len(result.LastEvaluatedKey) > 0 {
		var next listStartKey
		if err := attributevalue.UnmarshalMap(result.LastEvaluatedKey, &next); err != nil {
			return ports.ListPage{}, fmt.Errorf("failed to unmarshal last evaluated key: %w", err)
		}
		page.NextToken = next.ID
	}

	r.logger.Debug("Queried lists by owner",
		zap.String("userID", userID),
		zap.Int("count", len(page.Lists)),
		zap.Bool("more", page.NextToken != ""),
	)
	return page, nil
}

// Ping checks the Lists table is reachable
func (r *ListRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.client, r.tableName)
}
