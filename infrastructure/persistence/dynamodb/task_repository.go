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

	"lists-ms/domain/lists"
	"lists-ms/pkg/observability"
)

// TaskRepository implements ports.TaskRepository on the Tasks table
type TaskRepository struct {
	client    DynamoDBAPI
	tableName string
	listIndex string
	collector *observability.Collector
	logger    *zap.Logger
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(client DynamoDBAPI, tables Tables, collector *observability.Collector, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		client:    client,
		tableName: tables.Tasks,
		listIndex: tables.TasksListIndex,
		collector: collector,
		logger:    logger,
	}
}

// taskItem represents the DynamoDB item structure for a task
type taskItem struct {
	ID       string `dynamodbav:"id"`
	ListUUID string `dynamodbav:"listUuid"`
	Name     string `dynamodbav:"name"`
	Order    int    `dynamodbav:"order"`
	Complete bool   `dynamodbav:"complete"`
}

// Save writes the task record wholesale
func (r *TaskRepository) Save(ctx context.Context, task *lists.Task) error {
	av, err := attributevalue.MarshalMap(taskItem{
		ID:       task.ID,
		ListUUID: task.ListID,
		Name:     task.Name,
		Order:    task.Order,
		Complete: task.Complete,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	start := time.Now()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return observe(r.collector, "PutItem", r.tableName, start, err)
}

// Delete removes a task by ID
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			attrID: &types.AttributeValueMemberS{Value: id},
		},
	})
	return observe(r.collector, "DeleteItem", r.tableName, start, err)
}

// QueryByList follows every page of the list index for listID
func (r *TaskRepository) QueryByList(ctx context.Context, listID string) ([]*lists.Task, error) {
	keyCond := expression.Key(attrListUUID).Equal(expression.Value(listID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build task query: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.listIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	tasks := make([]*lists.Task, 0)
	for paginator.HasMorePages() {
		start := time.Now()
		out, err := paginator.NextPage(ctx)
		if err := observe(r.collector, "Query", r.listIndex, start, err); err != nil {
			return nil, err
		}

		var items []taskItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
		for _, item := range items {
			tasks = append(tasks, &lists.Task{
				ID:       item.ID,
				ListID:   item.ListUUID,
				Name:     item.Name,
				Order:    item.Order,
				Complete: item.Complete,
			})
		}
	}

	r.logger.Debug("Queried tasks by list",
		zap.String("listID", listID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}

// Ping checks the Tasks table is reachable
func (r *TaskRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.client, r.tableName)
}
