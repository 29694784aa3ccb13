package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lists-ms/application/commands"
	"lists-ms/application/services"
	"lists-ms/domain/events"
	"lists-ms/domain/lists"
	"lists-ms/infrastructure/persistence/memory"
	"lists-ms/pkg/observability"
	"lists-ms/pkg/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.GetEventType()
	}
	return out
}

type fixture struct {
	listRepo   *memory.ListRepository
	taskRepo   *memory.TaskRepository
	publisher  *recordingPublisher
	collector  *observability.Collector
	saveList   *SaveListHandler
	deleteList *DeleteListHandler
	saveTask   *SaveTaskHandler
	deleteTask *DeleteTaskHandler
}

func newFixture() *fixture {
	logger := zap.NewNop()
	f := &fixture{
		listRepo:  memory.NewListRepository(),
		taskRepo:  memory.NewTaskRepository(),
		publisher: &recordingPublisher{},
		collector: observability.NewCollector("handlers_test"),
	}
	notifier := services.NewChangeNotifier(f.publisher, f.collector, logger)
	clock := utils.FixedClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	f.saveList = NewSaveListHandler(f.listRepo, notifier, clock, logger)
	f.deleteList = NewDeleteListHandler(f.listRepo, notifier, clock, logger)
	f.saveTask = NewSaveTaskHandler(f.listRepo, f.taskRepo, notifier, clock, logger)
	f.deleteTask = NewDeleteTaskHandler(f.listRepo, f.taskRepo, notifier, clock, logger)
	return f
}

func (f *fixture) seedList(t *testing.T, id, owner string) {
	t.Helper()
	require.NoError(t, f.saveList.Handle(context.Background(), commands.SaveListCommand{
		ListID: id, UserID: owner, Name: "list " + id,
	}))
}

func TestSaveList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.saveList.Handle(ctx, commands.SaveListCommand{
		ListID: "a1",
		UserID: "u1",
		Name:   "Groceries",
		Order:  0,
		Tasks:  []interface{}{map[string]interface{}{"uuid": "e1", "name": "embedded"}},
	})

	require.NoError(t, err)
	stored, err := f.listRepo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Len(t, stored.Tasks, 1)
	assert.Equal(t, []string{events.TypeListSaved}, f.publisher.types())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.ListsSaved))
}

func TestSaveList_OverwriteTakesOwnership(t *testing.T) {
	f := newFixture()
	f.seedList(t, "a1", "u1")

	f.seedList(t, "a1", "u2")

	stored, err := f.listRepo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "u2", stored.UserID)
}

func TestSaveList_PublishFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("bus down")

	f.seedList(t, "a1", "u1")

	_, err := f.listRepo.GetByID(context.Background(), "a1")
	assert.NoError(t, err)
}

func TestDeleteList(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		f := newFixture()
		f.seedList(t, "a1", "u1")
		require.NoError(t, f.saveTask.Handle(ctx, commands.SaveTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u1", Name: "milk"}))

		require.NoError(t, f.deleteList.Handle(ctx, commands.DeleteListCommand{ListID: "a1", UserID: "u1"}))

		_, err := f.listRepo.GetByID(ctx, "a1")
		assert.ErrorIs(t, err, lists.ErrListNotFound)
		assert.Equal(t, 1, f.taskRepo.Count(), "tasks are not cascaded")
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture()
		f.seedList(t, "a1", "u1")

		err := f.deleteList.Handle(ctx, commands.DeleteListCommand{ListID: "a1", UserID: "u2"})

		assert.ErrorIs(t, err, lists.ErrForbidden)
		_, err = f.listRepo.GetByID(ctx, "a1")
		assert.NoError(t, err)
	})

	t.Run("missing list succeeds", func(t *testing.T) {
		f := newFixture()

		assert.NoError(t, f.deleteList.Handle(ctx, commands.DeleteListCommand{ListID: "nope", UserID: "u1"}))
		assert.Equal(t, []string{events.TypeListDeleted}, f.publisher.types())
	})
}

func TestSaveTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedList(t, "a1", "u1")

	t.Run("owner", func(t *testing.T) {
		err := f.saveTask.Handle(ctx, commands.SaveTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u1", Name: "milk", Complete: true})
		require.NoError(t, err)

		tasks, err := f.taskRepo.QueryByList(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].Complete)
	})

	t.Run("other user", func(t *testing.T) {
		err := f.saveTask.Handle(ctx, commands.SaveTaskCommand{ListID: "a1", TaskID: "t2", UserID: "u2", Name: "eggs"})
		assert.ErrorIs(t, err, lists.ErrForbidden)
		assert.Equal(t, 1, f.taskRepo.Count())
	})

	t.Run("missing parent", func(t *testing.T) {
		err := f.saveTask.Handle(ctx, commands.SaveTaskCommand{ListID: "nope", TaskID: "t3", UserID: "u1", Name: "eggs"})
		assert.ErrorIs(t, err, lists.ErrListNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedList(t, "a1", "u1")
	require.NoError(t, f.saveTask.Handle(ctx, commands.SaveTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u1", Name: "milk"}))

	t.Run("other user", func(t *testing.T) {
		err := f.deleteTask.Handle(ctx, commands.DeleteTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u2"})
		assert.ErrorIs(t, err, lists.ErrForbidden)
		assert.Equal(t, 1, f.taskRepo.Count())
	})

	t.Run("missing parent", func(t *testing.T) {
		err := f.deleteTask.Handle(ctx, commands.DeleteTaskCommand{ListID: "nope", TaskID: "t1", UserID: "u1"})
		assert.ErrorIs(t, err, lists.ErrListNotFound)
		assert.Equal(t, 1, f.taskRepo.Count())
		assert.NotContains(t, f.publisher.types(), events.TypeTaskDeleted)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, f.deleteTask.Handle(ctx, commands.DeleteTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u1"}))
		assert.Equal(t, 0, f.taskRepo.Count())
	})

	t.Run("missing task succeeds", func(t *testing.T) {
		assert.NoError(t, f.deleteTask.Handle(ctx, commands.DeleteTaskCommand{ListID: "a1", TaskID: "t1", UserID: "u1"}))
	})
}
