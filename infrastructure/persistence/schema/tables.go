// Package schema provisions the Lists and Tasks tables and their owner
// indexes. It mirrors the deployed topology and performs no migrations.
package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	ddb "lists-ms/infrastructure/persistence/dynamodb"
)

// TableAPI is the subset of *dynamodb.Client used for provisioning
type TableAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Definitions returns the CreateTable inputs for both collections. Each
// table is keyed by id and carries one ALL-projection index on its parent
// attribute.
func Definitions(tables ddb.Tables) []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		tableWithIndex(tables.Lists, tables.ListsUserIndex, "userId"),
		tableWithIndex(tables.Tasks, tables.TasksListIndex, "listUuid"),
	}
}

func tableWithIndex(table, index, indexKey string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(indexKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(index),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(indexKey), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// TableStatus summarizes one provisioned table
type TableStatus struct {
	Name    string   `json:"name" yaml:"name"`
	Status  string   `json:"status" yaml:"status"`
	Items   int64    `json:"items" yaml:"items"`
	Indexes []string `json:"indexes" yaml:"indexes"`
}

// Provisioner creates, deletes and describes the tables
type Provisioner struct {
	client TableAPI
	tables ddb.Tables
	logger *zap.Logger
}

// NewProvisioner creates a new provisioner
func NewProvisioner(client TableAPI, tables ddb.Tables, logger *zap.Logger) *Provisioner {
	return &Provisioner{client: client, tables: tables, logger: logger}
}

// Create creates any missing table. When wait is positive it blocks until
// every table is ACTIVE or the wait elapses.
func (p *Provisioner) Create(ctx context.Context, wait time.Duration) error {
	for _, def := range Definitions(p.tables) {
		name := aws.ToString(def.TableName)
		_, err := p.client.CreateTable(ctx, def)

		var inUse *types.ResourceInUseException
		switch {
		case errors.As(err, &inUse):
			p.logger.Info("Table already exists", zap.String("table", name))
			continue
		case err != nil:
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		p.logger.Info("Table created", zap.String("table", name))

		if wait > 0 {
			waiter := dynamodb.NewTableExistsWaiter(p.client)
			if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: def.TableName}, wait); err != nil {
				return fmt.Errorf("table %s did not become active: %w", name, err)
			}
		}
	}
	return nil
}

// Delete removes both tables. Missing tables are skipped.
func (p *Provisioner) Delete(ctx context.Context) error {
	for _, name := range []string{p.tables.Lists, p.tables.Tasks} {
		_, err := p.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})

		var notFound *types.ResourceNotFoundException
		switch {
		case errors.As(err, &notFound):
			p.logger.Info("Table already absent", zap.String("table", name))
		case err != nil:
			return fmt.Errorf("failed to delete table %s: %w", name, err)
		default:
			p.logger.Info("Table deleted", zap.String("table", name))
		}
	}
	return nil
}

// Describe reports the status of both tables. Missing tables report
// status MISSING.
func (p *Provisioner) Describe(ctx context.Context) ([]TableStatus, error) {
	statuses := make([]TableStatus, 0, 2)
	for _, name := range []string{p.tables.Lists, p.tables.Tasks} {
		out, err := p.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})

		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			statuses = append(statuses, TableStatus{Name: name, Status: "MISSING", Indexes: []string{}})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to describe table %s: %w", name, err)
		}

		status := TableStatus{
			Name:    name,
			Status:  string(out.Table.TableStatus),
			Items:   aws.ToInt64(out.Table.ItemCount),
			Indexes: make([]string, 0, len(out.Table.GlobalSecondaryIndexes)),
		}
		for _, gsi := range out.Table.GlobalSecondaryIndexes {
			status.Indexes = append(status.Indexes, aws.ToString(gsi.IndexName))
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
