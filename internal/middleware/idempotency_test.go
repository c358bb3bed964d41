package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// replayStub keeps entries in a map instead of talking to redis.
type replayStub struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newReplayStub() *replayStub {
	return &replayStub{data: map[string][]byte{}}
}

func (s *replayStub) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	s.data[key] = value.([]byte)
	return redis.NewBoolResult(true, nil)
}

func (s *replayStub) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(raw), nil)
}

func (s *replayStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func idempotentRouter(store ReplayStore, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Idempotency(store, time.Hour))
	r.POST("/requests", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"attempt": *calls})
	})
	return r
}

func postRequests(r *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/requests", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls := 0
	r := idempotentRouter(newReplayStub(), &calls)

	first := postRequests(r, "key-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	second := postRequests(r, "key-1")
	if second.Code != http.StatusCreated {
		t.Fatalf("replay must keep the original status, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replay body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Errorf("handler must run once, ran %d times", calls)
	}

	postRequests(r, "key-2")
	if calls != 2 {
		t.Errorf("a new key must reach the handler, ran %d times", calls)
	}
}

func TestIdempotencyIgnoresMissingKey(t *testing.T) {
	calls := 0
	r := idempotentRouter(newReplayStub(), &calls)

	postRequests(r, "")
	postRequests(r, "")
	if calls != 2 {
		t.Errorf("requests without a key must pass through, ran %d times", calls)
	}
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	calls := 0
	store := newReplayStub()
	r := idempotentRouter(store, &calls)

	// A concurrent attempt holds the provisional lock.
	raw, _ := json.Marshal(idempEntry{InProgress: true, CreatedAt: time.Now().UTC()})
	store.data[idempKey(http.MethodPost, "/requests", "", "key-3")] = raw

	w := postRequests(r, "key-3")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while in progress, got %d", w.Code)
	}
	if calls != 0 {
		t.Errorf("handler must not run behind the lock, ran %d times", calls)
	}
}
