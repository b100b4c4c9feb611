package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/emree-sen/idea-box-app/internal/repository"
)

type projectService struct {
	store    repository.ProjectStore
	observer UseCaseObserver
}

func NewProjectService(store repository.ProjectStore, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
	}
}

// observe reports one use case. Call it deferred with a pointer to the
// named error result.
func (s *projectService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	err := *errp
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *projectService) List(ctx context.Context) (list []domain.Project, err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "list-projects", time.Now(), fields, &err)

	list, err = s.store.List(ctx)
	fields["count"] = len(list)
	return list, err
}

func (s *projectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, idOrPrefix string) (*domain.Project, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrEmptyID
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	p, err := matchPrefix(list, idOrPrefix)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrProjectNotFound, idOrPrefix)
	}
	return p, nil
}

func (s *projectService) Save(ctx context.Context, p domain.Project) (err error) {
	defer s.observe(ctx, "save-project", time.Now(), map[string]any{"project": p.ID}, &err)
	return s.store.Save(ctx, p)
}

func (s *projectService) UpdateTemplate(ctx context.Context, id, text string) (err error) {
	defer s.observe(ctx, "update-template", time.Now(), map[string]any{"project": id}, &err)

	if _, err = s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.UpdateTemplateText(ctx, id, text)
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-project", time.Now(), map[string]any{"project": id}, &err)
	return s.store.Delete(ctx, id)
}

func (s *projectService) ClearAll(ctx context.Context) (err error) {
	defer s.observe(ctx, "clear-projects", time.Now(), nil, &err)
	return s.store.ClearAll(ctx)
}

func (s *projectService) Export(ctx context.Context, id, dir string) (path string, err error) {
	fields := map[string]any{"project": id}
	defer s.observe(ctx, "export-project", time.Now(), fields, &err)

	var p *domain.Project
	p, err = s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path = filepath.Join(dir, ExportFileName(p.Title))
	if err = os.WriteFile(path, []byte(p.Template), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	fields["path"] = path
	return path, nil
}
