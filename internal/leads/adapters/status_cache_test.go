package adapters

import (
	"context"
	"testing"
	"time"

	"leaddesk_backend/internal/leads/normalize"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// countingSource records how often the upstream statuses were fetched.
type countingSource struct {
	calls int
}

func (s *countingSource) FetchLeads(ctx context.Context, filters map[string]string) ([]normalize.Record, error) {
	return nil, nil
}

func (s *countingSource) FetchStatuses(ctx context.Context) ([]normalize.Record, error) {
	s.calls++
	return []normalize.Record{
		{"id": float64(1), "name": "Untouched", "color": "#ccc"},
		{"id": float64(2), "name": "Touched"},
	}, nil
}

func (s *countingSource) FetchEvents(ctx context.Context, kind ports.EventKind, leadID int64) ([]normalize.Record, error) {
	return nil, nil
}

func newCacheClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: server.Addr()}), server
}

func TestStatuses_MissPopulatesThenHits(t *testing.T) {
	client, server := newCacheClient(t)
	source := &countingSource{}
	cache := NewStatusCache(source, client, time.Minute, logger.New("development"))

	first, err := cache.Statuses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 || source.calls != 1 {
		t.Fatalf("expected upstream fetch on cold cache, got %d statuses after %d calls", len(first), source.calls)
	}
	if !server.Exists(statusCacheKey) {
		t.Fatalf("expected status set written to the cache")
	}

	second, err := cache.Statuses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected warm read served from cache, upstream called %d times", source.calls)
	}
	if len(second) != 2 || second[0].Name != "Untouched" || second[0].Color != "#ccc" {
		t.Fatalf("expected cached set to round-trip, got %+v", second)
	}
}

func TestStatuses_RedisFailureFallsThrough(t *testing.T) {
	client, server := newCacheClient(t)
	source := &countingSource{}
	cache := NewStatusCache(source, client, time.Minute, logger.New("development"))

	server.Close()

	statuses, err := cache.Statuses(context.Background())
	if err != nil {
		t.Fatalf("expected redis failure to fall through to the upstream, got %v", err)
	}
	if len(statuses) != 2 || source.calls != 1 {
		t.Fatalf("expected upstream result despite cache being down, got %+v after %d calls", statuses, source.calls)
	}
}

func TestStatuses_CorruptCacheEntryIgnored(t *testing.T) {
	client, server := newCacheClient(t)
	source := &countingSource{}
	cache := NewStatusCache(source, client, time.Minute, logger.New("development"))

	if err := server.Set(statusCacheKey, "{not json"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	statuses, err := cache.Statuses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 2 || source.calls != 1 {
		t.Fatalf("expected corrupt entry to fall through to the upstream, got %+v after %d calls", statuses, source.calls)
	}
}

func TestStatuses_NilClientReadsThrough(t *testing.T) {
	source := &countingSource{}
	cache := NewStatusCache(source, nil, time.Minute, logger.New("development"))

	for i := 0; i < 2; i++ {
		if _, err := cache.Statuses(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if source.calls != 2 {
		t.Fatalf("expected every read to hit the upstream without a client, got %d calls", source.calls)
	}
}

func TestInvalidate_ForcesNextReadToUpstream(t *testing.T) {
	client, server := newCacheClient(t)
	source := &countingSource{}
	cache := NewStatusCache(source, client, time.Minute, logger.New("development"))

	if _, err := cache.Statuses(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.Invalidate(context.Background())
	if server.Exists(statusCacheKey) {
		t.Fatalf("expected cached entry dropped")
	}

	if _, err := cache.Statuses(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected upstream refetch after invalidation, got %d calls", source.calls)
	}
}
