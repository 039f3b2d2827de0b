package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/jobdesk/pkg/cache"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
	"github.com/ghuser/jobdesk/services/item/domain/models"
	"github.com/ghuser/jobdesk/services/item/domain/repositories"
)

// ItemService coordinates item mutations and reads. Single-item reads are
// served through a Redis read-through cache when one is configured.
type ItemService struct {
	repo  repositories.ItemRepository
	bus   notifier.Publisher
	cache *pkgcache.ItemCache
	log   logger.Logger
}

// NewItemService returns an ItemService wired with the given repository,
// bus, and optional cache (nil disables caching).
func NewItemService(repo repositories.ItemRepository, bus notifier.Publisher, itemCache *pkgcache.ItemCache, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, bus: bus, cache: itemCache, log: log}
}

// Create persists a new item owned by ownerID and publishes item.added.
func (s *ItemService) Create(ctx context.Context, ownerID string, in *models.CreateItemInput) (*models.Item, error) {
	now := time.Now().UTC()

	item := &models.Item{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Code:      strings.TrimSpace(in.Code),
		Available: in.Available,
		Weight:    in.Weight,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.publish(ctx, notifier.TopicItemAdded, item)
	return item, nil
}

// Update merges the non-nil input fields into the stored item, invalidates
// the cache entry, and publishes item.updated.
func (s *ItemService) Update(ctx context.Context, ownerID string, id uuid.UUID, in *models.UpdateItemInput) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		item.Code = strings.TrimSpace(*in.Code)
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if in.Weight != nil {
		item.Weight = *in.Weight
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, ownerID, id)
	}

	s.publish(ctx, notifier.TopicItemUpdated, item)
	return item, nil
}

// Delete removes the item, invalidates the cache entry, and publishes
// item.deleted carrying only the id. No cascade into jobs.
func (s *ItemService) Delete(ctx context.Context, ownerID string, id uuid.UUID) (uuid.UUID, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete item: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, ownerID, id)
	}

	s.publish(ctx, notifier.TopicItemDeleted, notifier.Deleted{ID: deleted.ID})
	return deleted.ID, nil
}

// Get retrieves an item using a read-through cache pattern:
//  1. Check Redis first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *ItemService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, ownerID, id); err == nil {
			return &models.Item{
				ID:        cached.ID,
				OwnerID:   cached.OwnerID,
				Name:      cached.Name,
				Code:      cached.Code,
				Available: models.Availability(cached.Available),
				Weight:    cached.Weight,
				CreatedAt: cached.CreatedAt,
				UpdatedAt: cached.UpdatedAt,
			}, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), &pkgcache.CachedItem{
				ID:        item.ID,
				OwnerID:   item.OwnerID,
				Name:      item.Name,
				Code:      item.Code,
				Available: string(item.Available),
				Weight:    item.Weight,
				CreatedAt: item.CreatedAt,
				UpdatedAt: item.UpdatedAt,
			})
		}()
	}

	return item, nil
}

// List returns the owner's items. The search filter only applies from two
// characters up; shorter queries return the full owner-scoped set.
func (s *ItemService) List(ctx context.Context, ownerID, search string) ([]*models.Item, error) {
	if utf8.RuneCountInString(search) < 2 {
		search = ""
	}
	items, err := s.repo.List(ctx, ownerID, search)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemService) publish(ctx context.Context, topic string, payload any) {
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		s.log.WarnContext(ctx, "change notification dropped", "topic", topic, "error", err)
	}
}
