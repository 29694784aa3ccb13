package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lists-ms/application/commands"
	"lists-ms/application/commands/bus"
	"lists-ms/pkg/auth"
	"lists-ms/pkg/common"
	pkgerrors "lists-ms/pkg/errors"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	commandBus *bus.CommandBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(commandBus *bus.CommandBus, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		commandBus: commandBus,
		errors:     errHandler,
		logger:     logger,
	}
}

// Create handles POST /{uuid}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	taskID := uuid.New().String()
	if req.UUID != nil {
		taskID = *req.UUID
	}

	cmd := commands.SaveTaskCommand{
		ListID:   chi.URLParam(r, "uuid"),
		TaskID:   taskID,
		Name:     *req.Name,
		Order:    *req.Order,
		Complete: *req.Complete,
	}
	if h.save(w, r, cmd) {
		common.RespondCreated(w, strings.TrimSuffix(r.URL.Path, "/")+"/"+taskID)
	}
}

// Update handles PUT /{uuid}/tasks/{taskUuid}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.SaveTaskCommand{
		ListID:   chi.URLParam(r, "uuid"),
		TaskID:   chi.URLParam(r, "taskUuid"),
		Name:     *req.Name,
		Order:    *req.Order,
		Complete: *req.Complete,
	}
	if h.save(w, r, cmd) {
		common.RespondCreated(w, "")
	}
}

func (h *TaskHandler) save(w http.ResponseWriter, r *http.Request, cmd commands.SaveTaskCommand) bool {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewMissingCredentialsError(""))
		return false
	}
	cmd.UserID = user.UserID

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return false
	}
	return true
}

// Delete handles DELETE /{uuid}/tasks/{taskUuid}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewMissingCredentialsError(""))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.DeleteTaskCommand{
		ListID: chi.URLParam(r, "uuid"),
		TaskID: chi.URLParam(r, "taskUuid"),
		UserID: user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondCreated(w, "")
}
