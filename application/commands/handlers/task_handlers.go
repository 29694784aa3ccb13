package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lists-ms/application/commands"
	"lists-ms/application/ports"
	"lists-ms/application/services"
	"lists-ms/domain/events"
	"lists-ms/domain/lists"
	"lists-ms/pkg/utils"
)

// authorizeParent resolves the parent list and checks the caller owns it.
// It never touches the task collection.
func authorizeParent(ctx context.Context, repo ports.ListRepository, listID, userID string) error {
	list, err := repo.GetByID(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to get parent list: %w", err)
	}
	return list.Authorize(userID)
}

// SaveTaskHandler upserts task records
type SaveTaskHandler struct {
	listRepo ports.ListRepository
	taskRepo ports.TaskRepository
	notifier *services.ChangeNotifier
	clock    utils.Clock
	logger   *zap.Logger
}

// NewSaveTaskHandler creates a new save task handler
func NewSaveTaskHandler(
	listRepo ports.ListRepository,
	taskRepo ports.TaskRepository,
	notifier *services.ChangeNotifier,
	clock utils.Clock,
	logger *zap.Logger,
) *SaveTaskHandler {
	return &SaveTaskHandler{
		listRepo: listRepo,
		taskRepo: taskRepo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Handle writes the task after checking the parent list's owner
func (h *SaveTaskHandler) Handle(ctx context.Context, cmd commands.SaveTaskCommand) error {
	task, err := lists.NewTask(cmd.TaskID, cmd.ListID, cmd.Name, cmd.Order, cmd.Complete)
	if err != nil {
		return err
	}

	if err := authorizeParent(ctx, h.listRepo, cmd.ListID, cmd.UserID); err != nil {
		h.logger.Warn("Rejected task save",
			zap.String("listID", cmd.ListID),
			zap.String("taskID", cmd.TaskID),
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
		return err
	}

	if err := h.taskRepo.Save(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	h.notifier.Notify(ctx, events.NewTaskSaved(task.ID, task.ListID, cmd.UserID, task.Complete, h.clock.Now()))
	return nil
}

// DeleteTaskHandler removes task records
type DeleteTaskHandler struct {
	listRepo ports.ListRepository
	taskRepo ports.TaskRepository
	notifier *services.ChangeNotifier
	clock    utils.Clock
	logger   *zap.Logger
}

// NewDeleteTaskHandler creates a new delete task handler
func NewDeleteTaskHandler(
	listRepo ports.ListRepository,
	taskRepo ports.TaskRepository,
	notifier *services.ChangeNotifier,
	clock utils.Clock,
	logger *zap.Logger,
) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		listRepo: listRepo,
		taskRepo: taskRepo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Handle deletes the task after checking the parent list's owner. The task
// itself is not read, so deleting a missing task succeeds.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd commands.DeleteTaskCommand) error {
	if err := authorizeParent(ctx, h.listRepo, cmd.ListID, cmd.UserID); err != nil {
		h.logger.Warn("Rejected task delete",
			zap.String("listID", cmd.ListID),
			zap.String("taskID", cmd.TaskID),
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
		return err
	}

	if err := h.taskRepo.Delete(ctx, cmd.TaskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	h.notifier.Notify(ctx, events.NewTaskDeleted(cmd.TaskID, cmd.ListID, cmd.UserID, h.clock.Now()))
	return nil
}
