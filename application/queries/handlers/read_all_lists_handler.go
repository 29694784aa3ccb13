package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lists-ms/application/ports"
	"lists-ms/application/queries"
	"lists-ms/application/queries/bus"
	"lists-ms/domain/lists"
	"lists-ms/pkg/observability"
)

// ReadAllListsHandler fans one owner query out into one task query per list
type ReadAllListsHandler struct {
	listRepo ports.ListRepository
	taskRepo ports.TaskRepository
	policy   lists.AttachmentPolicy
	pageSize int
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewReadAllListsHandler creates a new read-all handler
func NewReadAllListsHandler(
	listRepo ports.ListRepository,
	taskRepo ports.TaskRepository,
	policy lists.AttachmentPolicy,
	pageSize int,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ReadAllListsHandler {
	if policy == nil {
		policy = lists.IdentityAttachment{}
	}
	if pageSize <= 0 {
		pageSize = queries.DefaultPageSize
	}
	return &ReadAllListsHandler{
		listRepo: listRepo,
		taskRepo: taskRepo,
		policy:   policy,
		pageSize: pageSize,
		tracer:   tracer,
		logger:   logger,
	}
}

// Handle executes the read-all query. Task queries run sequentially and the
// first failure aborts the whole page.
func (h *ReadAllListsHandler) Handle(ctx context.Context, query queries.ReadAllListsQuery) (*queries.ReadAllListsResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = h.pageSize
	}

	page, err := h.listRepo.QueryByUser(ctx, query.UserID, limit, query.StartToken)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}

	views := make([]lists.ListView, len(page.Lists))
	for i, list := range page.Lists {
		views[i] = list.View()
	}

	for i := range views {
		listID := views[i].UUID
		err := h.tracer.TraceFunction(ctx, "QueryTasks", func(ctx context.Context) error {
			tasks, err := h.taskRepo.QueryByList(ctx, listID)
			if err != nil {
				return fmt.Errorf("failed to query tasks for list %s: %w", listID, err)
			}

			summaries := make([]lists.TaskSummary, len(tasks))
			for j, task := range tasks {
				summaries[j] = task.Summary()
			}
			return h.policy.Attach(views, i, summaries)
		})
		if err != nil {
			return nil, err
		}
	}

	h.logger.Debug("Read lists",
		zap.String("userID", query.UserID),
		zap.Int("lists", len(views)),
		zap.String("policy", h.policy.Name()),
		zap.Bool("more", page.NextToken != ""),
	)

	return &queries.ReadAllListsResult{
		Data:          views,
		LastEvaluated: page.NextToken,
	}, nil
}

// Register binds the list queries to their handlers
func Register(b *bus.QueryBus, readAll *ReadAllListsHandler) error {
	return b.Register(queries.ReadAllListsQuery{}, bus.HandlerFor(readAll.Handle))
}
