package repository

import (
	"context"
	"errors"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// ErrProjectNotFound is returned by lookups for an id that is not stored.
var ErrProjectNotFound = errors.New("project not found")

// RecordRepo stores opaque string values under string keys.
type RecordRepo interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ProjectStore keeps the ordered project list, newest first. Every
// mutation is an atomic read-modify-write of the whole list.
type ProjectStore interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Save(ctx context.Context, p domain.Project) error
	// UpdateTemplateText replaces the template text and stamps UpdatedAt.
	// An unknown id is a no-op.
	UpdateTemplateText(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}
