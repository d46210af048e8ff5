package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"moviecatalog/internal/config"
)

// cachedResponse is what gets stored in Redis for a cache hit.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// bodyRecorder tees the response body so a successful reply can be
// stored after the handler runs. Bodies over limit are passed through
// untouched and marked oversized so they are never cached partially.
type bodyRecorder struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int
	oversized bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.oversized {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.oversized = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// NewRedisCache caches successful GET responses. Every catalog read is
// scoped to the authenticated account, so the Authorization header is
// part of the key material: two users asking for the same route and
// query must never share an entry. A per-caller version counter is
// folded into the key and bumped on every successful mutation, so a
// create or delete immediately invalidates that caller's cached pages
// and reads stay read-your-writes within the TTL.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()
			caller := callerHash(c)
			verKey := cfg.Prefix + ":ver:" + caller

			if req.Method != http.MethodGet {
				if err := next(c); err != nil {
					return err
				}
				if c.Response().Status < http.StatusBadRequest && isMutation(req.Method) {
					bg := context.Background()
					_ = rdb.Incr(bg, verKey).Err()
					_ = rdb.Expire(bg, verKey, 24*time.Hour).Err()
				}
				return nil
			}

			ver, err := rdb.Get(ctx, verKey).Result()
			if err != nil {
				ver = "0"
			}
			key := cacheKey(cfg.Prefix, caller, ver, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					h := c.Response().Header()
					if cached.ContentType != "" {
						h.Set(echo.HeaderContentType, cached.ContentType)
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, werr := c.Response().Write(cached.Body)
					return werr
				}
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          cfg.MaxBodyBytes,
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.oversized {
				payload, err := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        rec.buf.Bytes(),
				})
				if err == nil {
					// The request context may already be done; storing the
					// entry should still succeed.
					_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// callerHash identifies the requester by bearer token. Unauthenticated
// requests all share one bucket, which is fine: the public routes serve
// the same payload to everyone.
func callerHash(c echo.Context) string {
	sum := sha256.Sum256([]byte(c.Request().Header.Get(echo.HeaderAuthorization)))
	return fmt.Sprintf("%x", sum[:8])
}

func cacheKey(prefix, caller, version string, c echo.Context) string {
	req := c.Request()
	sum := sha256.Sum256([]byte(
		req.Method + "\n" +
			c.Path() + "\n" +
			req.URL.RawQuery + "\n" +
			caller + "\n" +
			version,
	))
	return fmt.Sprintf("%s:%x", prefix, sum[:16])
}
