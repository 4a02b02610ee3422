package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"later/internal/config"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

type workspaceService struct {
	workspaceRepo contentRepo.WorkspaceRepository
	containerRepo contentRepo.ContainerRepository
	noteRepo      contentRepo.NoteRepository
	orderRepo     contentRepo.OrderRepository
	nodes         contentSvc.NodeStore
	guard         *ScopeGuard
	logger        *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo contentRepo.WorkspaceRepository,
	containerRepo contentRepo.ContainerRepository,
	noteRepo contentRepo.NoteRepository,
	orderRepo contentRepo.OrderRepository,
	nodes contentSvc.NodeStore,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		containerRepo: containerRepo,
		noteRepo:      noteRepo,
		orderRepo:     orderRepo,
		nodes:         nodes,
		guard:         guard,
		logger:        logger,
	}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, req *contentSvc.CreateWorkspaceRequest) (*models.Workspace, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxWorkspaceNameLength)),
	); err != nil {
		return nil, validationErr(err)
	}

	now := time.Now()
	ws := &models.Workspace{
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.workspaceRepo.Create(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created", "id", ws.ID, "name", ws.Name, "user_id", ws.UserID)
	return ws, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, id, userID string) (*models.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id, userID)
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, userID string) ([]models.Workspace, error) {
	return s.workspaceRepo.List(ctx, userID)
}

func (s *workspaceService) UpdateWorkspace(ctx context.Context, id, userID string, req *contentSvc.UpdateWorkspaceRequest) (*models.Workspace, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxWorkspaceNameLength)),
	); err != nil {
		return nil, validationErr(err)
	}

	ws, err := s.workspaceRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	ws.Name = req.Name
	ws.UpdatedAt = time.Now()
	if err := s.workspaceRepo.Update(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace updated", "id", ws.ID, "name", ws.Name)
	return ws, nil
}

// DeleteWorkspace locks the workspace, then every container found under that
// lock, and removes all content in one transaction.
func (s *workspaceService) DeleteWorkspace(ctx context.Context, id, userID string) error {
	if _, err := s.workspaceRepo.GetByID(ctx, id, userID); err != nil {
		return err
	}

	scope := models.WorkspaceScope(id)
	ctx, release, err := s.guard.Hold(ctx, scope.LockKey())
	if err != nil {
		return err
	}
	defer release()

	containers, err := s.containerRepo.ListByWorkspace(ctx, id)
	if err != nil {
		return err
	}

	keys := []string{scope.LockKey()}
	for _, c := range containers {
		keys = append(keys, models.ContainerLockKey(c.ID))
	}

	err = s.guard.Write(ctx, keys, func(ctx context.Context) error {
		for _, c := range containers {
			if err := s.nodes.DeleteByContainer(ctx, c.ID); err != nil {
				return err
			}
		}

		entries, err := s.orderRepo.List(ctx, scope.Key())
		if err != nil {
			return err
		}
		if err := s.orderRepo.Delete(ctx, models.Refs(entries)...); err != nil {
			return err
		}

		if err := s.containerRepo.DeleteByWorkspace(ctx, id); err != nil {
			return err
		}
		if err := s.noteRepo.DeleteByWorkspace(ctx, id); err != nil {
			return err
		}
		if err := s.workspaceRepo.Delete(ctx, id); err != nil {
			return err
		}

		s.guard.Changed(ctx, scope, services.ChangeDeleted, nil)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("workspace deleted", "id", id, "containers", len(containers))
	return nil
}
