package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"slide-generator/internal/model"
)

var _ PresentationRepository = (*memoryRepository)(nil)

type memoryRepository struct {
	mu     sync.RWMutex
	items  map[string]*model.Presentation
	logger *zap.Logger
}

// NewMemoryRepository creates a process-local repository. Data is lost on restart.
func NewMemoryRepository(logger *zap.Logger) PresentationRepository {
	return &memoryRepository{
		items:  make(map[string]*model.Presentation),
		logger: logger.Named("MemoryPresentationRepo"),
	}
}

func (r *memoryRepository) Put(_ context.Context, p *model.Presentation) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: presentation id is required", model.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p.Clone()
	r.logger.Debug("Presentation stored", zap.String("id", p.ID))
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (*model.Presentation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *memoryRepository) Update(_ context.Context, p *model.Presentation) error {
	if p == nil {
		return fmt.Errorf("%w: presentation is nil", model.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return model.ErrNotFound
	}
	r.items[p.ID] = p.Clone()
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepository) ListExpired(_ context.Context, before time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, p := range r.items {
		if p.CreatedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryRepository) Oldest(_ context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	r.mu.RLock()
	all := make([]*model.Presentation, 0, len(r.items))
	for _, p := range r.items {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	if n > len(all) {
		n = len(all)
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = all[i].ID
	}
	return ids, nil
}

func (r *memoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}
