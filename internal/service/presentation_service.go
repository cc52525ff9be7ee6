package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slide-generator/internal/builder"
	"slide-generator/internal/generator"
	"slide-generator/internal/messaging"
	"slide-generator/internal/model"
	"slide-generator/internal/repository"
)

// Deletion reasons carried by presentation.deleted events.
const (
	ReasonRequest  = "request"
	ReasonExpired  = "expired"
	ReasonCapacity = "capacity"
)

// DocumentStore is the file side of a presentation.
type DocumentStore interface {
	Write(id string, data []byte) (string, error)
	Open(id string) (*os.File, error)
	Remove(id string) error
}

// Document is an opened presentation file ready to be streamed.
// The caller must Close it.
type Document struct {
	File *os.File
	Name string
	Size int64
}

func (d *Document) Read(p []byte) (int, error) { return d.File.Read(p) }
func (d *Document) Close() error               { return d.File.Close() }

// PresentationService orchestrates generation, rendering and storage of presentations.
type PresentationService interface {
	Create(ctx context.Context, topic string, cfg model.PresentationConfig) (*model.Presentation, error)
	Get(ctx context.Context, id string) (*model.Presentation, error)
	Download(ctx context.Context, id string) (*Document, error)
	// Configure shallow-merges patch into the stored config and regenerates the file.
	Configure(ctx context.Context, id string, patch map[string]json.RawMessage) (*model.Presentation, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes presentations older than the retention TTL and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// Options are the presentation limits and retention policy.
type Options struct {
	MaxSlides        int
	DefaultSlides    int
	RetentionTTL     time.Duration // 0 - хранить бессрочно
	MaxPresentations int           // 0 - без ограничения
	Now              func() time.Time
}

type presentationServiceImpl struct {
	repo      repository.PresentationRepository
	files     DocumentStore
	generator generator.ContentGenerator
	publisher messaging.EventPublisher
	opts      Options
	locks     *keyedLock
	logger    *zap.Logger
}

var _ PresentationService = (*presentationServiceImpl)(nil)

// NewPresentationService creates the service. A nil publisher disables events.
func NewPresentationService(
	repo repository.PresentationRepository,
	files DocumentStore,
	gen generator.ContentGenerator,
	publisher messaging.EventPublisher,
	opts Options,
	logger *zap.Logger,
) PresentationService {
	if publisher == nil {
		publisher = messaging.NewNopPublisher()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &presentationServiceImpl{
		repo:      repo,
		files:     files,
		generator: gen,
		publisher: publisher,
		opts:      opts,
		locks:     newKeyedLock(),
		logger:    logger.Named("PresentationService"),
	}
}

func (s *presentationServiceImpl) now() time.Time {
	return s.opts.Now().UTC()
}

// render generates content for topic with cfg and returns the PPTX bytes.
func (s *presentationServiceImpl) render(ctx context.Context, topic string, cfg model.PresentationConfig) ([]byte, error) {
	n := cfg.SlideCount(s.opts.DefaultSlides)
	records, err := s.generator.Generate(ctx, topic, n)
	if err != nil {
		return nil, err
	}
	data, err := builder.Render(builder.Build(topic, cfg, records))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *presentationServiceImpl) Create(ctx context.Context, topic string, cfg model.PresentationConfig) (*model.Presentation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, model.ErrTopicRequired
	}
	if err := cfg.Validate(s.opts.MaxSlides); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("topic", topic))

	data, err := s.render(ctx, topic, cfg)
	if err != nil {
		log.Error("Failed to build presentation", zap.Error(err))
		return nil, err
	}

	id := uuid.NewString()
	path, err := s.files.Write(id, data)
	if err != nil {
		log.Error("Failed to save presentation file", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	now := s.now()
	p := &model.Presentation{
		ID:        id,
		Topic:     topic,
		Config:    cfg.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
		FilePath:  path,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		log.Error("Failed to store presentation, removing file", zap.String("id", id), zap.Error(err))
		if rmErr := s.files.Remove(id); rmErr != nil {
			log.Warn("Failed to remove orphaned file", zap.String("id", id), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailed, err)
	}
	log.Info("Presentation created", zap.String("id", id), zap.Int("bytes", len(data)))

	s.enforceCapacity(ctx, id)
	s.publish(ctx, messaging.PresentationEvent{
		Type:           messaging.EventCreated,
		PresentationID: id,
		Topic:          topic,
		Layout:         string(cfg.LayoutName()),
		NumSlides:      cfg.SlideCount(s.opts.DefaultSlides),
		OccurredAt:     now,
	})
	return p.Clone(), nil
}

func (s *presentationServiceImpl) Get(ctx context.Context, id string) (*model.Presentation, error) {
	return s.repo.Get(ctx, id)
}

func (s *presentationServiceImpl) Download(ctx context.Context, id string) (*Document, error) {
	unlock := s.locks.RLock(id)
	defer unlock()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	// файл заменяется через rename, поэтому открытый дескриптор остается согласованным
	f, err := s.files.Open(id)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", model.ErrStorageFailed, id, err)
	}
	return &Document{
		File: f,
		Name: fmt.Sprintf("presentation_%s.pptx", id),
		Size: info.Size(),
	}, nil
}

func (s *presentationServiceImpl) Configure(ctx context.Context, id string, patch map[string]json.RawMessage) (*model.Presentation, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	log := s.logger.With(zap.String("id", id))

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := current.Config.Merge(patch)
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(s.opts.MaxSlides); err != nil {
		return nil, err
	}

	// без копии старого файла откатить неудачный Update нельзя
	previous, err := s.readFile(id)
	if err != nil {
		log.Error("Failed to read current file, refusing to regenerate", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailed, err)
	}

	data, err := s.render(ctx, current.Topic, merged)
	if err != nil {
		log.Error("Failed to regenerate presentation, keeping previous version", zap.Error(err))
		return nil, err
	}

	path, err := s.files.Write(id, data)
	if err != nil {
		log.Error("Failed to save regenerated file", zap.Error(err))
		return nil, err
	}

	updated := current.Clone()
	updated.Config = merged
	updated.UpdatedAt = s.now()
	updated.FilePath = path
	if err := s.repo.Update(ctx, updated); err != nil {
		log.Error("Failed to store new config, restoring previous file", zap.Error(err))
		if previous != nil {
			if _, restoreErr := s.files.Write(id, previous); restoreErr != nil {
				log.Error("Failed to restore previous file", zap.Error(restoreErr))
			}
		} else if rmErr := s.files.Remove(id); rmErr != nil {
			log.Error("Failed to remove regenerated file", zap.Error(rmErr))
		}
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailed, err)
	}
	log.Info("Presentation reconfigured", zap.String("layout", string(merged.LayoutName())), zap.Int("slides", merged.SlideCount(s.opts.DefaultSlides)))

	s.publish(ctx, messaging.PresentationEvent{
		Type:           messaging.EventConfigured,
		PresentationID: id,
		Topic:          updated.Topic,
		Layout:         string(merged.LayoutName()),
		NumSlides:      merged.SlideCount(s.opts.DefaultSlides),
		OccurredAt:     updated.UpdatedAt,
	})
	return updated, nil
}

// readFile returns the current file content. A file that is already gone
// yields nil without error.
func (s *presentationServiceImpl) readFile(id string) ([]byte, error) {
	f, err := s.files.Open(id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *presentationServiceImpl) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id, ReasonRequest)
}

func (s *presentationServiceImpl) delete(ctx context.Context, id, reason string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.files.Remove(id); err != nil {
		s.logger.Warn("Presentation record deleted but file removal failed", zap.String("id", id), zap.Error(err))
	}
	s.logger.Info("Presentation deleted", zap.String("id", id), zap.String("reason", reason))
	s.publish(ctx, messaging.PresentationEvent{
		Type:           messaging.EventDeleted,
		PresentationID: id,
		Reason:         reason,
		OccurredAt:     s.now(),
	})
	return nil
}

// enforceCapacity evicts the oldest presentations (never keepID) above MaxPresentations.
func (s *presentationServiceImpl) enforceCapacity(ctx context.Context, keepID string) {
	if s.opts.MaxPresentations <= 0 {
		return
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("Failed to count presentations", zap.Error(err))
		return
	}
	excess := count - s.opts.MaxPresentations
	if excess <= 0 {
		return
	}
	ids, err := s.repo.Oldest(ctx, excess+1)
	if err != nil {
		s.logger.Warn("Failed to list oldest presentations", zap.Error(err))
		return
	}
	for _, id := range ids {
		if excess == 0 {
			break
		}
		if id == keepID {
			continue
		}
		if err := s.delete(ctx, id, ReasonCapacity); err != nil && !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Failed to evict presentation", zap.String("id", id), zap.Error(err))
			continue
		}
		excess--
	}
}

func (s *presentationServiceImpl) Sweep(ctx context.Context) (int, error) {
	if s.opts.RetentionTTL <= 0 {
		return 0, nil
	}
	ids, err := s.repo.ListExpired(ctx, s.now().Add(-s.opts.RetentionTTL))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, id := range ids {
		if err := s.delete(ctx, id, ReasonExpired); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			s.logger.Warn("Failed to remove expired presentation", zap.String("id", id), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("Expired presentations removed", zap.Int("count", removed))
	}
	return removed, nil
}

func (s *presentationServiceImpl) publish(ctx context.Context, event messaging.PresentationEvent) {
	// событие не должно зависеть от отмены входящего запроса
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.Warn("Failed to publish presentation event",
			zap.String("type", string(event.Type)),
			zap.String("id", event.PresentationID),
			zap.Error(err),
		)
	}
}
