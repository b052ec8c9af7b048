package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/itemsearch/internal/db"
)

func newMockStore(t *testing.T, cacheTTL time.Duration) (*Store, *mock.Client) {
	t.Helper()
	c := mock.NewClient(gomock.NewController(t))
	return NewStoreForTest(c, cacheTTL), c
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestPing(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.Ping(context.Background())
	if !isDBError(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped db.Error, got %v", err)
	}
}

func TestWaitForReady_RetriesUntilUp(t *testing.T) {
	s, c := newMockStore(t, 0)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
			Return(mock.ErrorResult(errors.New("connection refused"))).Times(2),
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
			Return(mock.Result(mock.RedisString("PONG"))),
	)

	if err := s.WaitForReady(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	err := s.WaitForReady(context.Background(), 200*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestHGetAll(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "item:1")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"title":  mock.RedisString("hello"),
			"status": mock.RedisString("ACTIVE"),
		})))

	m, err := s.HGetAll(context.Background(), "item:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["title"] != "hello" || m["status"] != "ACTIVE" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_ClientCache(t *testing.T) {
	s, c := newMockStore(t, time.Minute)
	c.EXPECT().DoCache(gomock.Any(), mock.Match("HGETALL", "item:1"), time.Minute).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"title": mock.RedisString("cached"),
		})))

	m, err := s.HGetAll(context.Background(), "item:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["title"] != "cached" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_Missing(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "item:404")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})))

	m, err := s.HGetAll(context.Background(), "item:404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestHGetAll_Error(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "item:1")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	if _, err := s.HGetAll(context.Background(), "item:1"); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		result      rueidis.RedisResult
		want        string
		notFound    bool
		wantDBError bool
	}{
		{name: "hit", result: mock.Result(mock.RedisBlobString("value")), want: "value"},
		{name: "miss", result: mock.Result(mock.RedisNil()), notFound: true},
		{name: "network", result: mock.ErrorResult(context.DeadlineExceeded), wantDBError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newMockStore(t, 0)
			c.EXPECT().Do(gomock.Any(), mock.Match("GET", "emb:k")).Return(tt.result)

			data, err := s.Get(context.Background(), "emb:k")
			if errors.Is(err, db.ErrKeyNotFound) != tt.notFound {
				t.Errorf("ErrKeyNotFound = %v, want %v (err %v)", !tt.notFound, tt.notFound, err)
			}
			if isDBError(err) != tt.wantDBError {
				t.Errorf("db.Error = %v, want %v (err %v)", !tt.wantDBError, tt.wantDBError, err)
			}
			if string(data) != tt.want {
				t.Errorf("data = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestSetWithTTL(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("SET", "emb:k", "v", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.SetWithTTL(context.Background(), "emb:k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_NoExpiry(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("SET", "emb:k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.SetWithTTL(context.Background(), "emb:k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Error(t *testing.T) {
	s, c := newMockStore(t, 0)
	c.EXPECT().Do(gomock.Any(), mock.Match("SET", "emb:k", "v", "EX", "60")).
		Return(mock.ErrorResult(errors.New("READONLY")))

	if err := s.SetWithTTL(context.Background(), "emb:k", []byte("v"), time.Minute); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
