package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"later/internal/domain/services"
	"later/internal/handler/sse"
	"later/internal/httputil"
	"later/internal/notify"
)

// ChangeSubscriber hands out per-workspace change feeds
type ChangeSubscriber interface {
	SubscribeWorkspace(workspaceID string) (<-chan services.ScopeChange, func())
}

// EventsHandler streams committed scope changes as Server-Sent Events so
// clients can re-read a scope after someone else changed it
type EventsHandler struct {
	changes ChangeSubscriber
	authz   services.ResourceAuthorizer
	config  *sse.Config
	logger  *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(changes ChangeSubscriber, authz services.ResourceAuthorizer, config *sse.Config, logger *slog.Logger) *EventsHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &EventsHandler{
		changes: changes,
		authz:   authz,
		config:  config,
		logger:  logger,
	}
}

// StreamWorkspace streams every change in a workspace until the client leaves
// GET /api/workspaces/{id}/events
func (h *EventsHandler) StreamWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathID(w, r, "Workspace")
	if !ok {
		return
	}
	if err := h.authz.CanAccessWorkspace(r.Context(), userID, workspaceID); err != nil {
		handleError(w, err)
		return
	}

	feed, cancel := h.changes.SubscribeWorkspace(workspaceID)
	defer cancel()

	stream, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	clientID := uuid.NewString()
	h.logger.Info("change stream opened",
		"workspace_id", workspaceID,
		"client_id", clientID,
	)
	defer h.logger.Info("change stream closed",
		"workspace_id", workspaceID,
		"client_id", clientID,
	)

	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	dead := keepAlive.Start(stream, h.logger)
	defer func() {
		keepAlive.Stop()
		<-dead
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-dead:
			return
		case change, ok := <-feed:
			if !ok {
				return
			}
			payload, err := notify.EncodeChange(change)
			if err != nil {
				h.logger.Error("failed to encode scope change", "scope", change.ScopeKey, "error", err)
				continue
			}
			if err := stream.WriteEvent("scope_changed", payload); err != nil {
				h.logger.Debug("client disconnected", "client_id", clientID, "error", err)
				return
			}
		}
	}
}
