package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// How long the in-progress lock is held before a retry may take over.
const provisionalLockTTL = 60 * time.Second

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func idempKey(method, path, userID, requestID string) string {
	return "idemp:" + strings.ToLower(method) + ":" + path + ":" + userID + ":" + requestID
}

// ReplayStore is the slice of redis.Client the middleware needs; tests
// substitute an in-memory store.
type ReplayStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Idempotency replays the stored response for a repeated mutating call
// carrying the same Idempotency-Key. Requests without the header pass
// through untouched. Must run after Auth so the key can be scoped to the
// caller.
func Idempotency(rdb ReplayStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		reqID := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if reqID == "" {
			c.Next()
			return
		}

		key := idempKey(c.Request.Method, c.FullPath(), UserID(c), reqID)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		entry := idempEntry{InProgress: true, CreatedAt: time.Now().UTC()}
		raw, _ := json.Marshal(entry)
		ok, err := rdb.SetNX(ctx, key, raw, provisionalLockTTL).Result()
		if err != nil {
			// Redis being down must not block the request path.
			log.Printf("idempotency: redis unavailable: %v", err)
			c.Next()
			return
		}

		if !ok {
			stored, err := rdb.Get(ctx, key).Bytes()
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Request already in progress"})
				c.Abort()
				return
			}
			var prev idempEntry
			if err := json.Unmarshal(stored, &prev); err != nil || prev.InProgress {
				c.JSON(http.StatusConflict, gin.H{"error": "Request already in progress"})
				c.Abort()
				return
			}
			c.Data(prev.Code, "application/json", prev.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		final := idempEntry{
			Code:      rec.Status(),
			Body:      rec.buf.Bytes(),
			CreatedAt: time.Now().UTC(),
		}
		raw, _ = json.Marshal(final)
		if err := rdb.Set(context.Background(), key, raw, ttl).Err(); err != nil {
			log.Printf("idempotency: failed to store response: %v", err)
		}
	}
}
