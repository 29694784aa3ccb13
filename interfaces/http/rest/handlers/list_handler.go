package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lists-ms/application/commands"
	"lists-ms/application/commands/bus"
	"lists-ms/application/queries"
	querybus "lists-ms/application/queries/bus"
	"lists-ms/pkg/auth"
	"lists-ms/pkg/common"
	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/utils"
)

// ListHandler handles list-related HTTP requests
type ListHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ListHandler {
	return &ListHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errHandler,
		logger:     logger,
	}
}

// ReadAll handles GET /
func (h *ListHandler) ReadAll(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewMissingCredentialsError(""))
		return
	}

	result, err := querybus.Ask[*queries.ReadAllListsResult](r.Context(), h.queryBus, queries.ReadAllListsQuery{
		UserID:     user.UserID,
		StartToken: r.URL.Query().Get("lastEvaluated"),
	})
	if err != nil {
		h.logger.Error("Failed to read lists",
			zap.String("userID", user.UserID),
			zap.Error(err),
		)
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, r, http.StatusOK, result)
}

// Create handles POST /
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.save(w, r, commands.SaveListCommand{
		ListID: *req.UUID,
		Name:   *req.Name,
		Order:  *req.Order,
		Tasks:  *req.Tasks,
	})
}

// Update handles PUT /{uuid}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateListRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.save(w, r, commands.SaveListCommand{
		ListID: chi.URLParam(r, "uuid"),
		Name:   *req.Name,
		Order:  *req.Order,
		Tasks:  *req.Tasks,
	})
}

func (h *ListHandler) save(w http.ResponseWriter, r *http.Request, cmd commands.SaveListCommand) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewMissingCredentialsError(""))
		return
	}
	cmd.UserID = user.UserID

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondCreated(w, "")
}

// Delete handles DELETE /{uuid}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewMissingCredentialsError(""))
		return
	}

	err = h.commandBus.Send(r.Context(), commands.DeleteListCommand{
		ListID: chi.URLParam(r, "uuid"),
		UserID: user.UserID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondCreated(w, "")
}

func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := common.DecodeJSON(r, v, common.DefaultMaxBodyBytes); err != nil {
		return err
	}
	return utils.ValidateStruct(v)
}
