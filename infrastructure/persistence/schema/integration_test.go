//go:build integration

package schema

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lists-ms/domain/lists"
	ddb "lists-ms/infrastructure/persistence/dynamodb"
	"lists-ms/pkg/observability"
)

// Runs against DynamoDB Local, e.g.
//
//	docker run -p 8000:8000 amazon/dynamodb-local
//	DYNAMODB_ENDPOINT=http://localhost:8000 go test -tags integration ./infrastructure/persistence/schema/
func newLocalClient(t *testing.T) *dynamodb.Client {
	t.Helper()

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMODB_ENDPOINT not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
	)
	require.NoError(t, err)

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

func TestListsAndTasksRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newLocalClient(t)
	logger := zap.NewNop()

	suffix := fmt.Sprintf("-%d", time.Now().UnixNano())
	tables := ddb.DefaultTables()
	tables.Lists += suffix
	tables.Tasks += suffix

	provisioner := NewProvisioner(client, tables, logger)
	require.NoError(t, provisioner.Create(ctx, time.Minute))
	t.Cleanup(func() { _ = provisioner.Delete(context.Background()) })

	collector := observability.NewCollector("integration")
	listRepo := ddb.NewListRepository(client, tables, collector, logger)
	taskRepo := ddb.NewTaskRepository(client, tables, collector, logger)
	require.NoError(t, listRepo.Ping(ctx))

	for _, id := range []string{"a1", "a2", "a3"} {
		list, err := lists.NewList(id, "u1", "list "+id, 0, nil)
		require.NoError(t, err)
		require.NoError(t, listRepo.Save(ctx, list))
	}
	other, err := lists.NewList("b1", "u2", "other", 0, nil)
	require.NoError(t, err)
	require.NoError(t, listRepo.Save(ctx, other))

	task, err := lists.NewTask("t1", "a1", "milk", 0, false)
	require.NoError(t, err)
	require.NoError(t, taskRepo.Save(ctx, task))

	t.Run("query by owner pages through every list", func(t *testing.T) {
		seen := map[string]bool{}
		token := ""
		for i := 0; i < 5; i++ {
			page, err := listRepo.QueryByUser(ctx, "u1", 2, token)
			require.NoError(t, err)
			for _, l := range page.Lists {
				assert.Equal(t, "u1", l.UserID)
				seen[l.ID] = true
			}
			if page.NextToken == "" {
				break
			}
			token = page.NextToken
		}
		assert.Len(t, seen, 3)
	})

	t.Run("tasks by list", func(t *testing.T) {
		tasks, err := taskRepo.QueryByList(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "milk", tasks[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, listRepo.Delete(ctx, "a1"))
		_, err := listRepo.GetByID(ctx, "a1")
		assert.ErrorIs(t, err, lists.ErrListNotFound)
	})

	t.Run("describe", func(t *testing.T) {
		statuses, err := provisioner.Describe(ctx)
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		assert.Equal(t, "ACTIVE", statuses[0].Status)
		assert.Equal(t, []string{tables.ListsUserIndex}, statuses[0].Indexes)
	})
}
