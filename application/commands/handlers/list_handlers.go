package handlers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lists-ms/application/commands"
	"lists-ms/application/ports"
	"lists-ms/application/services"
	"lists-ms/domain/events"
	"lists-ms/domain/lists"
	"lists-ms/pkg/utils"
)

// SaveListHandler upserts list records
type SaveListHandler struct {
	listRepo ports.ListRepository
	notifier *services.ChangeNotifier
	clock    utils.Clock
	logger   *zap.Logger
}

// NewSaveListHandler creates a new save list handler
func NewSaveListHandler(
	listRepo ports.ListRepository,
	notifier *services.ChangeNotifier,
	clock utils.Clock,
	logger *zap.Logger,
) *SaveListHandler {
	return &SaveListHandler{
		listRepo: listRepo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Handle writes the list wholesale, stamping the caller as owner. There is
// no existence check, so saving over another user's list id takes it over.
func (h *SaveListHandler) Handle(ctx context.Context, cmd commands.SaveListCommand) error {
	list, err := lists.NewList(cmd.ListID, cmd.UserID, cmd.Name, cmd.Order, cmd.Tasks)
	if err != nil {
		return err
	}

	if err := h.listRepo.Save(ctx, list); err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}

	h.logger.Debug("List saved",
		zap.String("listID", list.ID),
		zap.String("userID", list.UserID),
	)
	h.notifier.Notify(ctx, events.NewListSaved(list.ID, list.UserID, list.Name, list.Order, h.clock.Now()))
	return nil
}

// DeleteListHandler removes list records
type DeleteListHandler struct {
	listRepo ports.ListRepository
	notifier *services.ChangeNotifier
	clock    utils.Clock
	logger   *zap.Logger
}

// NewDeleteListHandler creates a new delete list handler
func NewDeleteListHandler(
	listRepo ports.ListRepository,
	notifier *services.ChangeNotifier,
	clock utils.Clock,
	logger *zap.Logger,
) *DeleteListHandler {
	return &DeleteListHandler{
		listRepo: listRepo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Handle deletes the list when the caller owns it. A missing list is
// already deleted and succeeds. Child tasks are left in place.
func (h *DeleteListHandler) Handle(ctx context.Context, cmd commands.DeleteListCommand) error {
	list, err := h.listRepo.GetByID(ctx, cmd.ListID)
	switch {
	case errors.Is(err, lists.ErrListNotFound):
		h.logger.Debug("List already absent", zap.String("listID", cmd.ListID))
	case err != nil:
		return fmt.Errorf("failed to get list: %w", err)
	default:
		if err := list.Authorize(cmd.UserID); err != nil {
			h.logger.Warn("Rejected list delete",
				zap.String("listID", cmd.ListID),
				zap.String("userID", cmd.UserID),
			)
			return err
		}
	}

	if err := h.listRepo.Delete(ctx, cmd.ListID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	h.notifier.Notify(ctx, events.NewListDeleted(cmd.ListID, cmd.UserID, h.clock.Now()))
	return nil
}
