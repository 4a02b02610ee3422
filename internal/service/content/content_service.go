package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"later/internal/config"
	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentRepo "later/internal/domain/repositories/content"
	"later/internal/domain/services"
	contentSvc "later/internal/domain/services/content"
)

type contentService struct {
	workspaceRepo contentRepo.WorkspaceRepository
	containerRepo contentRepo.ContainerRepository
	noteRepo      contentRepo.NoteRepository
	orderRepo     contentRepo.OrderRepository
	collection    contentSvc.OrderedCollection
	nodes         contentSvc.NodeStore
	guard         *ScopeGuard
	logger        *slog.Logger
}

// NewContentService creates the service for containers and notes
func NewContentService(
	workspaceRepo contentRepo.WorkspaceRepository,
	containerRepo contentRepo.ContainerRepository,
	noteRepo contentRepo.NoteRepository,
	orderRepo contentRepo.OrderRepository,
	collection contentSvc.OrderedCollection,
	nodes contentSvc.NodeStore,
	guard *ScopeGuard,
	logger *slog.Logger,
) contentSvc.ContentService {
	return &contentService{
		workspaceRepo: workspaceRepo,
		containerRepo: containerRepo,
		noteRepo:      noteRepo,
		orderRepo:     orderRepo,
		collection:    collection,
		nodes:         nodes,
		guard:         guard,
		logger:        logger,
	}
}

var validContainerKind = validation.In(models.ContainerTodoList, models.ContainerChecklist)

func (s *contentService) CreateContainer(ctx context.Context, req *contentSvc.CreateContainerRequest) (*models.Container, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required, isUUID),
		validation.Field(&req.Kind, validation.Required, validContainerKind),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxContainerNameLength)),
	); err != nil {
		return nil, validationErr(err)
	}

	if _, err := s.workspaceRepo.GetByIDOnly(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}

	scope := models.WorkspaceScope(req.WorkspaceID)
	var container *models.Container
	err := s.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		now := time.Now()
		container = &models.Container{
			WorkspaceID: req.WorkspaceID,
			Kind:        req.Kind,
			Name:        req.Name,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.containerRepo.Create(ctx, container); err != nil {
			return err
		}

		sortKey, err := s.collection.Append(ctx, scope, container.Ref())
		if err != nil {
			return err
		}
		container.SortKey = sortKey

		s.guard.Changed(ctx, scope, services.ChangeCreated, refPtr(container.Ref()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("container created",
		"id", container.ID,
		"workspace_id", container.WorkspaceID,
		"kind", container.Kind,
		"sort_key", container.SortKey,
	)
	return container, nil
}

func (s *contentService) GetContainer(ctx context.Context, id string) (*models.Container, error) {
	c, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SortKey = s.sortKeyOf(ctx, c.Ref())
	return c, nil
}

func (s *contentService) UpdateContainer(ctx context.Context, id string, req *contentSvc.UpdateContainerRequest) (*models.Container, error) {
	req.Name = trimPtr(req.Name)
	if req.Name == nil && req.Kind == nil {
		return nil, validationErr(fmt.Errorf("at least one field must be provided"))
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, notBlank, validation.Length(1, config.MaxContainerNameLength)),
		validation.Field(&req.Kind, validContainerKind),
	); err != nil {
		return nil, validationErr(err)
	}

	existing, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var container *models.Container
	err = s.guard.Write(ctx, []string{models.ContainerLockKey(existing.ID)}, func(ctx context.Context) error {
		c, err := s.containerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Kind != nil {
			c.Kind = *req.Kind
		}
		c.UpdatedAt = time.Now()

		if err := s.containerRepo.Update(ctx, c); err != nil {
			return err
		}
		c.SortKey = s.sortKeyOf(ctx, c.Ref())

		s.guard.Changed(ctx, models.WorkspaceScope(c.WorkspaceID), services.ChangeUpdated, refPtr(c.Ref()))
		container = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("container updated", "id", container.ID, "name", container.Name, "kind", container.Kind)
	return container, nil
}

// DeleteContainer removes the container, its nodes and their order entries
func (s *contentService) DeleteContainer(ctx context.Context, id string) error {
	existing, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	scope := models.WorkspaceScope(existing.WorkspaceID)
	keys := []string{scope.LockKey(), models.ContainerLockKey(existing.ID)}
	err = s.guard.Write(ctx, keys, func(ctx context.Context) error {
		if err := s.nodes.DeleteByContainer(ctx, id); err != nil {
			return err
		}
		if err := s.orderRepo.Delete(ctx, existing.Ref()); err != nil {
			return err
		}
		if err := s.containerRepo.Delete(ctx, id); err != nil {
			return err
		}

		s.guard.Changed(ctx, scope, services.ChangeDeleted, refPtr(existing.Ref()))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("container deleted", "id", id, "workspace_id", existing.WorkspaceID)
	return nil
}

func (s *contentService) CreateNote(ctx context.Context, req *contentSvc.CreateNoteRequest) (*models.Note, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required, isUUID),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Body, validation.Length(0, config.MaxNoteBodyLength)),
	); err != nil {
		return nil, validationErr(err)
	}

	if _, err := s.workspaceRepo.GetByIDOnly(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}

	scope := models.WorkspaceScope(req.WorkspaceID)
	var note *models.Note
	err := s.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		now := time.Now()
		note = &models.Note{
			WorkspaceID: req.WorkspaceID,
			Title:       req.Title,
			Body:        req.Body,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			return err
		}

		sortKey, err := s.collection.Append(ctx, scope, note.Ref())
		if err != nil {
			return err
		}
		note.SortKey = sortKey

		s.guard.Changed(ctx, scope, services.ChangeCreated, refPtr(note.Ref()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created", "id", note.ID, "workspace_id", note.WorkspaceID, "sort_key", note.SortKey)
	return note, nil
}

func (s *contentService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.SortKey = s.sortKeyOf(ctx, n.Ref())
	return n, nil
}

func (s *contentService) UpdateNote(ctx context.Context, id string, req *contentSvc.UpdateNoteRequest) (*models.Note, error) {
	req.Title = trimPtr(req.Title)
	if req.Title == nil && req.Body == nil {
		return nil, validationErr(fmt.Errorf("at least one field must be provided"))
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, notBlank, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Body, validation.Length(0, config.MaxNoteBodyLength)),
	); err != nil {
		return nil, validationErr(err)
	}

	existing, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := models.WorkspaceScope(existing.WorkspaceID)
	var note *models.Note
	err = s.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		n, err := s.noteRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Body != nil {
			n.Body = *req.Body
		}
		n.UpdatedAt = time.Now()

		if err := s.noteRepo.Update(ctx, n); err != nil {
			return err
		}
		n.SortKey = s.sortKeyOf(ctx, n.Ref())

		s.guard.Changed(ctx, scope, services.ChangeUpdated, refPtr(n.Ref()))
		note = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note updated", "id", note.ID, "title", note.Title)
	return note, nil
}

func (s *contentService) DeleteNote(ctx context.Context, id string) error {
	existing, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	scope := models.WorkspaceScope(existing.WorkspaceID)
	err = s.guard.Write(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		if err := s.orderRepo.Delete(ctx, existing.Ref()); err != nil {
			return err
		}
		if err := s.noteRepo.Delete(ctx, id); err != nil {
			return err
		}
		s.guard.Changed(ctx, scope, services.ChangeDeleted, refPtr(existing.Ref()))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("note deleted", "id", id, "workspace_id", existing.WorkspaceID)
	return nil
}

// ListContent returns containers and notes in workspace order. Entries whose
// entity is gone are skipped; entities without an entry are appended by
// creation time.
func (s *contentService) ListContent(ctx context.Context, workspaceID string) ([]models.WorkspaceItem, error) {
	if _, err := s.workspaceRepo.GetByIDOnly(ctx, workspaceID); err != nil {
		return nil, err
	}

	scope := models.WorkspaceScope(workspaceID)
	items := []models.WorkspaceItem{}
	err := s.guard.Read(ctx, []string{scope.LockKey()}, func(ctx context.Context) error {
		entries, err := s.orderRepo.List(ctx, scope.Key())
		if err != nil {
			return err
		}

		containers, err := s.containerRepo.ListByWorkspace(ctx, workspaceID)
		if err != nil {
			return err
		}
		notes, err := s.noteRepo.ListByWorkspace(ctx, workspaceID)
		if err != nil {
			return err
		}

		byRef := make(map[models.EntityRef]models.WorkspaceItem, len(containers)+len(notes))
		for i := range containers {
			c := &containers[i]
			byRef[c.Ref()] = models.WorkspaceItem{Ref: c.Ref(), Container: c}
		}
		for i := range notes {
			n := &notes[i]
			byRef[n.Ref()] = models.WorkspaceItem{Ref: n.Ref(), Note: n}
		}

		for _, e := range entries {
			item, ok := byRef[e.Ref]
			if !ok {
				s.logger.Warn("order entry without entity", "scope", scope.Key(), "ref", e.Ref.String())
				continue
			}
			item.SortKey = e.SortKey
			setItemSortKey(&item, e.SortKey)
			items = append(items, item)
			delete(byRef, e.Ref)
		}

		var orphans []models.WorkspaceItem
		for _, item := range byRef {
			orphans = append(orphans, item)
		}
		sortItemsByCreated(orphans)
		for _, item := range orphans {
			s.logger.Warn("entity without order entry", "scope", scope.Key(), "ref", item.Ref.String())
		}
		items = append(items, orphans...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// sortKeyOf reads ref's sort key; a missing entry reads as 0
func (s *contentService) sortKeyOf(ctx context.Context, ref models.EntityRef) int {
	entry, err := s.orderRepo.Get(ctx, ref)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to read sort key", "ref", ref.String(), "error", err)
		}
		return 0
	}
	return entry.SortKey
}

func setItemSortKey(item *models.WorkspaceItem, sortKey int) {
	if item.Container != nil {
		item.Container.SortKey = sortKey
	}
	if item.Note != nil {
		item.Note.SortKey = sortKey
	}
}

func sortItemsByCreated(items []models.WorkspaceItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Entity(), items[j].Entity()
		if !a.Created().Equal(b.Created()) {
			return a.Created().Before(b.Created())
		}
		return a.Ref().ID < b.Ref().ID
	})
}
