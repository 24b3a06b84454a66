package services

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"tvicladmin/internal/platform"
)

const analyticsTTL = 5 * time.Minute

// Dashboard bundles the analytics slices the admin dashboard renders in one
// screen. Slices that fail individually come back null rather than failing
// the whole dashboard.
type Dashboard struct {
	Overview      json.RawMessage `json:"overview"`
	ByState       json.RawMessage `json:"byState"`
	ByType        json.RawMessage `json:"byType"`
	TopPerforming json.RawMessage `json:"topPerforming"`
	Errors        []string        `json:"errors,omitempty"`
}

type AnalyticsService struct {
	Platform *platform.Client
	Cache    *Cache
}

// Dashboard fetches all slices concurrently, serving from cache when a recent
// copy exists.
func (s *AnalyticsService) Dashboard(ctx context.Context, query url.Values) (*Dashboard, error) {
	key := QueryKey("analytics:dashboard", query)
	var cached Dashboard
	if ok, _ := s.Cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out Dashboard
	)
	fetch := func(assign func(*Dashboard, json.RawMessage), get func() (json.RawMessage, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := get()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.Errors = append(out.Errors, err.Error())
				return
			}
			assign(&out, data)
		}()
	}

	fetch(func(d *Dashboard, v json.RawMessage) { d.Overview = v }, func() (json.RawMessage, error) {
		return s.Platform.Analytics(ctx, "overview", query)
	})
	fetch(func(d *Dashboard, v json.RawMessage) { d.ByState = v }, func() (json.RawMessage, error) {
		return s.Platform.Analytics(ctx, "by-state", query)
	})
	fetch(func(d *Dashboard, v json.RawMessage) { d.ByType = v }, func() (json.RawMessage, error) {
		return s.Platform.Analytics(ctx, "by-type", query)
	})
	fetch(func(d *Dashboard, v json.RawMessage) { d.TopPerforming = v }, func() (json.RawMessage, error) {
		return s.Platform.TopPerforming(ctx, 10)
	})
	wg.Wait()

	if len(out.Errors) == 0 {
		_ = s.Cache.Set(ctx, key, &out, analyticsTTL)
	}
	return &out, nil
}

// Slice fetches one named analytics slice with the same caching policy.
func (s *AnalyticsService) Slice(ctx context.Context, name string, query url.Values) (json.RawMessage, error) {
	key := QueryKey("analytics:"+name, query)
	var cached json.RawMessage
	if ok, _ := s.Cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	data, err := s.Platform.Analytics(ctx, name, query)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.Set(ctx, key, data, analyticsTTL)
	return data, nil
}
