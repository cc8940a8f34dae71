package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"learnhub/internal/model"
)

// courseListKey is the single aggregate key for the public catalog
// listing. Individual courses are cached under their own id.
const courseListKey = "courses:all"

// WriteKind classifies a catalog mutation for invalidation purposes.
type WriteKind int

const (
	WriteCreate WriteKind = iota
	WriteEdit
	WriteDelete
)

// CatalogStore is a read-through cache over the public course catalog.
// Cached entries hold the buyer-safe projection only, never the heavy
// per-lecture fields.
type CatalogStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogStore(client *redis.Client, ttl time.Duration) *CatalogStore {
	return &CatalogStore{client: client, ttl: ttl}
}

func courseKey(id string) string {
	return "course:" + id
}

func (c *CatalogStore) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	payload, err := c.client.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached course: %w", err)
	}

	var course model.Course
	if err := json.Unmarshal(payload, &course); err != nil {
		return nil, fmt.Errorf("unmarshal cached course: %w", err)
	}
	return &course, nil
}

func (c *CatalogStore) PutCourse(ctx context.Context, course *model.Course) error {
	payload, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	if err := c.client.Set(ctx, courseKey(course.ID.Hex()), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("put cached course: %w", err)
	}
	return nil
}

func (c *CatalogStore) GetCourses(ctx context.Context) ([]model.Course, error) {
	payload, err := c.client.Get(ctx, courseListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached course list: %w", err)
	}

	var courses []model.Course
	if err := json.Unmarshal(payload, &courses); err != nil {
		return nil, fmt.Errorf("unmarshal cached course list: %w", err)
	}
	return courses, nil
}

func (c *CatalogStore) PutCourses(ctx context.Context, courses []model.Course) error {
	payload, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("marshal course list: %w", err)
	}
	if err := c.client.Set(ctx, courseListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("put cached course list: %w", err)
	}
	return nil
}

// Invalidate drops exactly the keys a mutation can have gone stale:
//
//	create      -> list
//	edit(id)    -> course(id), list
//	delete(id)  -> course(id), list
func (c *CatalogStore) Invalidate(ctx context.Context, kind WriteKind, id string) error {
	keys := []string{courseListKey}
	if kind != WriteCreate {
		keys = append(keys, courseKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog: %w", err)
	}
	return nil
}
