package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/observability"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by the repositories
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Tables names the two collections and their secondary indexes
type Tables struct {
	Lists          string
	Tasks          string
	ListsUserIndex string
	TasksListIndex string
}

// DefaultTables matches the deployed table topology
func DefaultTables() Tables {
	return Tables{
		Lists:          "Lists",
		Tasks:          "Tasks",
		ListsUserIndex: "indexUser",
		TasksListIndex: "indexListUuid",
	}
}

// Item attribute names
const (
	attrID       = "id"
	attrUserID   = "userId"
	attrListUUID = "listUuid"
)

// observe records a store call and converts SDK failures into store errors
func observe(collector *observability.Collector, operation, table string, start time.Time, err error) error {
	collector.ObserveDB(operation, table, start, err)
	if err != nil {
		return pkgerrors.NewStoreError(operation+" "+table, err)
	}
	return nil
}

func ping(ctx context.Context, client DynamoDBAPI, table string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err != nil {
		return pkgerrors.NewStoreError("DescribeTable "+table, err)
	}
	return nil
}
