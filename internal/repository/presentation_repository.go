package repository

import (
	"context"
	"time"

	"slide-generator/internal/model"
)

// PresentationRepository stores presentation metadata.
// Implementations return copies: mutating a returned record never changes the store.
type PresentationRepository interface {
	// Put stores p under p.ID, replacing any previous record.
	Put(ctx context.Context, p *model.Presentation) error
	// Get returns model.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*model.Presentation, error)
	// Update replaces an existing record; model.ErrNotFound if there is none.
	Update(ctx context.Context, p *model.Presentation) error
	// Delete removes the record; model.ErrNotFound if there is none.
	Delete(ctx context.Context, id string) error
	// ListExpired returns ids of presentations created before the given time.
	ListExpired(ctx context.Context, before time.Time) ([]string, error)
	// Oldest returns up to n ids ordered by creation time, oldest first.
	Oldest(ctx context.Context, n int) ([]string, error)
	// Count returns the number of stored presentations.
	Count(ctx context.Context) (int, error)
}
