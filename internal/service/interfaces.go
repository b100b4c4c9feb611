package service

import (
	"context"
	"errors"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

var (
	// ErrAmbiguousID is returned when an id prefix matches several projects.
	ErrAmbiguousID = errors.New("id prefix matches more than one project")

	// ErrEmptyID is returned when no id was given.
	ErrEmptyID = errors.New("project id is required")
)

// ProjectService exposes the saved-project use cases to the CLI.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	// Resolve finds a project by exact id or unique id prefix.
	Resolve(ctx context.Context, idOrPrefix string) (*domain.Project, error)
	Save(ctx context.Context, p domain.Project) error
	UpdateTemplate(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
	// Export writes the project's template text into dir and returns the
	// written path.
	Export(ctx context.Context, id, dir string) (string, error)
}
