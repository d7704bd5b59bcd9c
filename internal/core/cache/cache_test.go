package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// 指向一个不可达端口：验证 redis 故障时照样回源
func unreachable(t *testing.T) *Cache {
	t.Helper()
	c := NewWithClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	}))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSON_FallsBackToLoader(t *testing.T) {
	c := unreachable(t)
	calls := 0
	got, err := GetOrLoadJSON(c, context.Background(), "user:1", time.Minute, func(ctx context.Context) (*profile, error) {
		calls++
		return &profile{ID: "1", Name: "Ada"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoadJSON() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("loader calls = %d, want 1", calls)
	}
	if got == nil || got.Name != "Ada" {
		t.Errorf("got %+v", got)
	}
}

func TestGetOrLoadJSON_PropagatesLoaderError(t *testing.T) {
	c := unreachable(t)
	want := errors.New("not found")
	_, err := GetOrLoadJSON(c, context.Background(), "user:2", time.Minute, func(ctx context.Context) (*profile, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected loader error, got %v", err)
	}
}

func TestDel_IgnoresRedisFailure(t *testing.T) {
	c := unreachable(t)
	c.Del(context.Background(), "user:1", "user:2")
	c.Del(context.Background())
}
