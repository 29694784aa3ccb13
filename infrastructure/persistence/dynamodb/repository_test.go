package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lists-ms/domain/lists"
	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/observability"
)

type mockDynamoDB struct {
	mock.Mock
}

func (m *mockDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	return &dynamodb.PutItemOutput{}, args.Error(0)
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, params)
	return &dynamodb.DeleteItemOutput{}, args.Error(0)
}

func (m *mockDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	return &dynamodb.DescribeTableOutput{}, args.Error(0)
}

func newListRepo(client DynamoDBAPI) *ListRepository {
	return NewListRepository(client, DefaultTables(), observability.NewCollector("test"), zap.NewNop())
}

func newTaskRepo(client DynamoDBAPI) *TaskRepository {
	return NewTaskRepository(client, DefaultTables(), nil, zap.NewNop())
}

func mustMarshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestListRepository_SaveWritesDeployedAttributes(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		tasks, ok := in.Item["tasks"].(*types.AttributeValueMemberL)
		return *in.TableName == "Lists" &&
			in.Item["id"].(*types.AttributeValueMemberS).Value == "a1" &&
			in.Item["userId"].(*types.AttributeValueMemberS).Value == "u1" &&
			in.Item["order"].(*types.AttributeValueMemberN).Value == "0" &&
			ok && len(tasks.Value) == 0
	})).Return(nil).Once()

	err := newListRepo(client).Save(context.Background(), &lists.List{ID: "a1", UserID: "u1", Name: "Groceries"})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestListRepository_EmbeddedTasksRoundTripUnchanged(t *testing.T) {
	embedded := []interface{}{
		map[string]interface{}{"uuid": "e1", "name": "n", "order": float64(0), "note": "keep me"},
		"milk",
	}

	var written map[string]types.AttributeValue
	client := new(mockDynamoDB)
	client.On("PutItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(*dynamodb.PutItemInput).Item
	}).Return(nil).Once()

	repo := newListRepo(client)
	require.NoError(t, repo.Save(context.Background(), &lists.List{ID: "a1", UserID: "u1", Name: "A", Tasks: embedded}))

	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: written}, nil).Once()
	list, err := repo.GetByID(context.Background(), "a1")

	require.NoError(t, err)
	assert.Equal(t, embedded, list.Tasks)
	client.AssertExpectations(t)
}

func TestListRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := new(mockDynamoDB)
		item := mustMarshal(t, listItem{ID: "a1", UserID: "u1", Name: "Groceries", Order: 2})
		client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		list, err := newListRepo(client).GetByID(context.Background(), "a1")

		require.NoError(t, err)
		assert.Equal(t, "u1", list.UserID)
		assert.Equal(t, 2, list.Order)
		assert.Equal(t, []interface{}{}, list.Tasks)
	})

	t.Run("missing", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := newListRepo(client).GetByID(context.Background(), "a1")

		assert.ErrorIs(t, err, lists.ErrListNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := newListRepo(client).GetByID(context.Background(), "a1")

		appErr := pkgerrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.ErrorTypeInternal, appErr.Type)
		assert.Equal(t, pkgerrors.CodeStoreFailure, appErr.Code)
	})
}

func TestListRepository_QueryByUserThreadsToken(t *testing.T) {
	client := new(mockDynamoDB)
	items := []map[string]types.AttributeValue{
		mustMarshal(t, listItem{ID: "b1", UserID: "u1", Name: "B", Tasks: []interface{}{map[string]interface{}{"name": "x"}}}),
	}
	lastKey := mustMarshal(t, listStartKey{ID: "b1", UserID: "u1"})

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		start, ok := in.ExclusiveStartKey["id"].(*types.AttributeValueMemberS)
		owner, ownerOK := in.ExclusiveStartKey["userId"].(*types.AttributeValueMemberS)
		return *in.IndexName == "indexUser" &&
			*in.Limit == 5 &&
			ok && start.Value == "a1" &&
			ownerOK && owner.Value == "u1"
	})).Return(&dynamodb.QueryOutput{Items: items, LastEvaluatedKey: lastKey}, nil).Once()

	page, err := newListRepo(client).QueryByUser(context.Background(), "u1", 5, "a1")

	require.NoError(t, err)
	require.Len(t, page.Lists, 1)
	assert.Equal(t, "b1", page.Lists[0].ID)
	assert.Equal(t, map[string]interface{}{"name": "x"}, page.Lists[0].Tasks[0])
	assert.Equal(t, "b1", page.NextToken)
	client.AssertExpectations(t)
}

func TestListRepository_QueryByUserLastPage(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{}, nil).Once()

	page, err := newListRepo(client).QueryByUser(context.Background(), "u1", 5, "")

	require.NoError(t, err)
	assert.Empty(t, page.Lists)
	assert.Empty(t, page.NextToken)
}

func TestTaskRepository_QueryByListFollowsPages(t *testing.T) {
	client := new(mockDynamoDB)
	first := []map[string]types.AttributeValue{
		mustMarshal(t, taskItem{ID: "t1", ListUUID: "a1", Name: "milk"}),
	}
	second := []map[string]types.AttributeValue{
		mustMarshal(t, taskItem{ID: "t2", ListUUID: "a1", Name: "eggs", Complete: true}),
	}
	cursor := mustMarshal(t, map[string]string{"id": "t1", "listUuid": "a1"})

	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == "indexListUuid" && in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{Items: first, LastEvaluatedKey: cursor}, nil).Once()
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{Items: second}, nil).Once()

	tasks, err := newTaskRepo(client).QueryByList(context.Background(), "a1")

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].ListID)
	assert.True(t, tasks[1].Complete)
	client.AssertExpectations(t)
}

func TestTaskRepository_SaveAndDelete(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		complete, ok := in.Item["complete"].(*types.AttributeValueMemberBOOL)
		return *in.TableName == "Tasks" &&
			in.Item["listUuid"].(*types.AttributeValueMemberS).Value == "a1" &&
			ok && !complete.Value
	})).Return(nil).Once()
	client.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return in.Key["id"].(*types.AttributeValueMemberS).Value == "t1"
	})).Return(errors.New("boom")).Once()

	repo := newTaskRepo(client)
	require.NoError(t, repo.Save(context.Background(), &lists.Task{ID: "t1", ListID: "a1", Name: "milk"}))

	err := repo.Delete(context.Background(), "t1")
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrorTypeInternal, appErr.Type)
	assert.Equal(t, pkgerrors.CodeStoreFailure, appErr.Code)
	client.AssertExpectations(t)
}

func TestPing(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("DescribeTable", mock.Anything, mock.Anything).Return(nil).Once()

	assert.NoError(t, newListRepo(client).Ping(context.Background()))
}
