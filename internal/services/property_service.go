package services

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"tvicladmin/internal/platform"
)

const searchTTL = time.Minute

// PropertyService proxies platform listing reads and moderation actions.
// Repeated searches under the same key cancel the previous in-flight request
// so a slow page never overwrites a newer one.
type PropertyService struct {
	Platform *platform.Client
	Cache    *Cache
	inflight *platform.Canceller
}

func NewPropertyService(client *platform.Client, cache *Cache) *PropertyService {
	return &PropertyService{Platform: client, Cache: cache, inflight: platform.NewCanceller()}
}

func (s *PropertyService) Search(ctx context.Context, query url.Values) (*platform.SearchResult, error) {
	key := QueryKey("properties:search", query)
	var cached platform.SearchResult
	if ok, _ := s.Cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	ctx, done := s.inflight.Start(ctx, "search")
	defer done()

	res, err := s.Platform.SearchProperties(ctx, query)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.Set(ctx, key, res, searchTTL)
	return res, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (json.RawMessage, error) {
	ctx, done := s.inflight.Start(ctx, "get:"+id)
	defer done()
	return s.Platform.GetProperty(ctx, id)
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	return s.Platform.DeleteProperty(ctx, id)
}

func (s *PropertyService) Restore(ctx context.Context, id string) error {
	return s.Platform.RestoreProperty(ctx, id)
}

func (s *PropertyService) Verify(ctx context.Context, id string, verified bool) error {
	return s.Platform.VerifyProperty(ctx, id, verified)
}
