package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/emree-sen/idea-box-app/internal/db"
	"github.com/emree-sen/idea-box-app/internal/domain"
)

// ProjectsKey is the record holding the serialized project list.
const ProjectsKey = "projects"

// SQLiteProjectStore implements ProjectStore as one JSON record. A mutex
// serializes in-process writers and each operation runs in its own
// transaction.
type SQLiteProjectStore struct {
	uow db.UnitOfWork
	mu  sync.Mutex
	now func() time.Time
}

// StoreOption customizes a SQLiteProjectStore.
type StoreOption func(*SQLiteProjectStore)

// WithStoreClock overrides the clock used for UpdatedAt.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *SQLiteProjectStore) { s.now = now }
}

func NewSQLiteProjectStore(uow db.UnitOfWork, opts ...StoreOption) *SQLiteProjectStore {
	s := &SQLiteProjectStore{
		uow: uow,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLiteProjectStore) List(ctx context.Context) ([]domain.Project, error) {
	var list []domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		list, err = load(ctx, NewSQLiteRecordRepo(tx))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return list, nil
}

func (s *SQLiteProjectStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
}

func (s *SQLiteProjectStore) Save(ctx context.Context, p domain.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("saving project: id is required")
	}
	return s.mutate(ctx, "saving project", func(list []domain.Project) ([]domain.Project, bool) {
		out := make([]domain.Project, 0, len(list)+1)
		out = append(out, p)
		return append(out, list...), true
	})
}

func (s *SQLiteProjectStore) UpdateTemplateText(ctx context.Context, id, text string) error {
	return s.mutate(ctx, "updating project template", func(list []domain.Project) ([]domain.Project, bool) {
		for i := range list {
			if list[i].ID == id {
				now := s.now()
				list[i].Template = text
				list[i].UpdatedAt = &now
				return list, true
			}
		}
		return list, false
	})
}

func (s *SQLiteProjectStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "deleting project", func(list []domain.Project) ([]domain.Project, bool) {
		out := list[:0:0]
		for _, p := range list {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out, true
	})
}

func (s *SQLiteProjectStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteRecordRepo(tx).Remove(ctx, ProjectsKey)
	})
	if err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}
	return nil
}

// mutate loads the list, applies fn and writes the result back when fn
// reports a change.
func (s *SQLiteProjectStore) mutate(ctx context.Context, op string, fn func([]domain.Project) ([]domain.Project, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteRecordRepo(tx)
		list, err := load(ctx, repo)
		if err != nil {
			return err
		}
		next, changed := fn(list)
		if !changed {
			return nil
		}
		raw, err := encodeProjects(next)
		if err != nil {
			return err
		}
		return repo.Put(ctx, ProjectsKey, raw)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func load(ctx context.Context, repo RecordRepo) ([]domain.Project, error) {
	raw, found, err := repo.Get(ctx, ProjectsKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Project{}, nil
	}
	return decodeProjects(raw)
}
