package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"later/internal/domain"
	models "later/internal/domain/models/content"
	contentSvc "later/internal/domain/services/content"
	"later/internal/outline"
	contentService "later/internal/service/content"
)

// Summary counts what a seed run created
type Summary struct {
	Workspaces int
	Containers int
	Notes      int
	Nodes      int
}

// Seeder creates fixture content through the content services
type Seeder struct {
	svc    *contentService.Services
	logger *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(svc *contentService.Services, logger *slog.Logger) *Seeder {
	return &Seeder{svc: svc, logger: logger}
}

// Seed creates every workspace in f for userID. A workspace whose name is
// already taken is replaced.
func (s *Seeder) Seed(ctx context.Context, userID string, f *Fixture) (*Summary, error) {
	var sum Summary
	for _, wf := range f.Workspaces {
		ws, err := s.createWorkspace(ctx, userID, wf.Name)
		if err != nil {
			return &sum, err
		}
		sum.Workspaces++

		for _, item := range wf.Content {
			if err := s.createItem(ctx, ws.ID, item, &sum); err != nil {
				return &sum, fmt.Errorf("workspace %q: %w", wf.Name, err)
			}
		}

		s.logger.Info("seeded workspace",
			"workspace_id", ws.ID,
			"name", ws.Name,
			"items", len(wf.Content),
		)
	}
	return &sum, nil
}

// Clear deletes every workspace userID owns, cascading to its content
func (s *Seeder) Clear(ctx context.Context, userID string) (int, error) {
	list, err := s.svc.Workspaces.ListWorkspaces(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list workspaces: %w", err)
	}
	for _, ws := range list {
		if err := s.svc.Workspaces.DeleteWorkspace(ctx, ws.ID, userID); err != nil {
			return 0, fmt.Errorf("delete workspace %s: %w", ws.ID, err)
		}
	}
	return len(list), nil
}

// Outline renders every container userID owns, grouped by workspace
func (s *Seeder) Outline(ctx context.Context, userID string) (string, error) {
	list, err := s.svc.Workspaces.ListWorkspaces(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list workspaces: %w", err)
	}

	var b strings.Builder
	for _, ws := range list {
		fmt.Fprintf(&b, "# %s\n", ws.Name)

		items, err := s.svc.Content.ListContent(ctx, ws.ID)
		if err != nil {
			return "", fmt.Errorf("list content of %s: %w", ws.ID, err)
		}
		for _, item := range items {
			if item.Note != nil {
				fmt.Fprintf(&b, "%s (note)\n", item.Note.Title)
				continue
			}
			tree, err := s.svc.Tree.ContainerTree(ctx, item.Ref.ID)
			if err != nil {
				return "", fmt.Errorf("tree of %s: %w", item.Ref.ID, err)
			}
			b.WriteString(outline.Render(tree))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (s *Seeder) createWorkspace(ctx context.Context, userID, name string) (*models.Workspace, error) {
	req := &contentSvc.CreateWorkspaceRequest{UserID: userID, Name: name}
	ws, err := s.svc.Workspaces.CreateWorkspace(ctx, req)
	if err == nil {
		return ws, nil
	}

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.ResourceID == "" {
		return nil, fmt.Errorf("create workspace %q: %w", name, err)
	}

	s.logger.Info("replacing existing workspace", "workspace_id", conflict.ResourceID, "name", name)
	if err := s.svc.Workspaces.DeleteWorkspace(ctx, conflict.ResourceID, userID); err != nil {
		return nil, fmt.Errorf("replace workspace %q: %w", name, err)
	}
	return s.svc.Workspaces.CreateWorkspace(ctx, req)
}

func (s *Seeder) createItem(ctx context.Context, workspaceID string, item ItemFixture, sum *Summary) error {
	if item.Kind == "note" {
		if _, err := s.svc.Content.CreateNote(ctx, &contentSvc.CreateNoteRequest{
			WorkspaceID: workspaceID,
			Title:       item.Title,
			Body:        item.Body,
		}); err != nil {
			return fmt.Errorf("create note %q: %w", item.Title, err)
		}
		sum.Notes++
		return nil
	}

	c, err := s.svc.Content.CreateContainer(ctx, &contentSvc.CreateContainerRequest{
		WorkspaceID: workspaceID,
		Kind:        models.ContainerKind(item.Kind),
		Name:        item.Name,
	})
	if err != nil {
		return fmt.Errorf("create container %q: %w", item.Name, err)
	}
	sum.Containers++

	return s.createNodes(ctx, c.ID, nil, item.Nodes, sum)
}

func (s *Seeder) createNodes(ctx context.Context, containerID string, parentID *string, nodes []NodeFixture, sum *Summary) error {
	for _, nf := range nodes {
		n, err := s.svc.Nodes.Create(ctx, &contentSvc.CreateNodeRequest{
			ContainerID: containerID,
			Title:       nf.Title,
			ParentID:    parentID,
		})
		if err != nil {
			return fmt.Errorf("create node %q: %w", nf.Title, err)
		}
		sum.Nodes++

		if nf.Done {
			done := true
			if _, err := s.svc.Nodes.Update(ctx, n.ID, &contentSvc.UpdateNodeRequest{IsDone: &done}); err != nil {
				return fmt.Errorf("complete node %q: %w", nf.Title, err)
			}
		}

		if err := s.createNodes(ctx, containerID, &n.ID, nf.Children, sum); err != nil {
			return err
		}
	}
	return nil
}
