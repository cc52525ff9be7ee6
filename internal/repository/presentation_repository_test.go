package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

func newPresentation(created time.Time) *model.Presentation {
	n := 8
	return &model.Presentation{
		ID:        uuid.NewString(),
		Topic:     "Volcanoes",
		Config:    model.PresentationConfig{NumSlides: &n, Theme: map[string]interface{}{"background": "FFFFFF"}},
		CreatedAt: created.UTC(),
		UpdatedAt: created.UTC(),
		FilePath:  "/tmp/x.pptx",
	}
}

func repositories(t *testing.T) map[string]PresentationRepository {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]PresentationRepository{
		"memory": NewMemoryRepository(zap.NewNop()),
		"redis":  NewRedisRepository(client, "test:", zap.NewNop()),
	}
}

func TestPresentationRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			t.Run("Put and Get", func(t *testing.T) {
				p := newPresentation(base)
				require.NoError(t, repo.Put(ctx, p))

				got, err := repo.Get(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, p.ID, got.ID)
				assert.Equal(t, p.Topic, got.Topic)
				assert.Equal(t, 8, got.Config.SlideCount(10))
				assert.Equal(t, "FFFFFF", got.Config.Theme["background"])
				assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

				got.Config.Theme["background"] = "000000"
				again, err := repo.Get(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, "FFFFFF", again.Config.Theme["background"], "returned records are copies")
			})

			t.Run("Unknown id", func(t *testing.T) {
				_, err := repo.Get(ctx, uuid.NewString())
				assert.ErrorIs(t, err, model.ErrNotFound)
				assert.ErrorIs(t, repo.Update(ctx, newPresentation(base)), model.ErrNotFound)
				assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), model.ErrNotFound)
			})

			t.Run("Update", func(t *testing.T) {
				p := newPresentation(base)
				require.NoError(t, repo.Put(ctx, p))

				layout := "two_column"
				p.Config.Layout = &layout
				p.UpdatedAt = base.Add(time.Minute)
				require.NoError(t, repo.Update(ctx, p))

				got, err := repo.Get(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, model.LayoutTwoColumn, got.Config.LayoutName())
				assert.Equal(t, 8, got.Config.SlideCount(10))
				assert.True(t, base.Add(time.Minute).Equal(got.UpdatedAt))
			})

			t.Run("Delete", func(t *testing.T) {
				p := newPresentation(base)
				require.NoError(t, repo.Put(ctx, p))
				require.NoError(t, repo.Delete(ctx, p.ID))
				_, err := repo.Get(ctx, p.ID)
				assert.ErrorIs(t, err, model.ErrNotFound)
			})
		})
	}
}

func TestPresentationRepository_Retention(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			old := newPresentation(base)
			mid := newPresentation(base.Add(time.Hour))
			fresh := newPresentation(base.Add(2 * time.Hour))
			for _, p := range []*model.Presentation{fresh, old, mid} {
				require.NoError(t, repo.Put(ctx, p))
			}

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, count)

			expired, err := repo.ListExpired(ctx, base.Add(90*time.Minute))
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{old.ID, mid.ID}, expired)

			expired, err = repo.ListExpired(ctx, base)
			require.NoError(t, err)
			assert.Empty(t, expired, "the bound is exclusive")

			oldest, err := repo.Oldest(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{old.ID, mid.ID}, oldest)

			all, err := repo.Oldest(ctx, 10)
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, repo.Delete(ctx, old.ID))
			oldest, err = repo.Oldest(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{mid.ID}, oldest)
		})
	}
}
