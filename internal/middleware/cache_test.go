package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func cacheCtx(t *testing.T, method, target, auth string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/movies")
	return c
}

func TestCacheKeyIsolatesCallers(t *testing.T) {
	a := cacheCtx(t, http.MethodGet, "/v1/movies?page=1", "Bearer token-a")
	b := cacheCtx(t, http.MethodGet, "/v1/movies?page=1", "Bearer token-b")

	keyA := cacheKey("cache", callerHash(a), "0", a)
	keyB := cacheKey("cache", callerHash(b), "0", b)
	if keyA == keyB {
		t.Error("two callers share a cache key for the same route and query")
	}

	// The same caller repeating the request must hit the same entry.
	a2 := cacheCtx(t, http.MethodGet, "/v1/movies?page=1", "Bearer token-a")
	if cacheKey("cache", callerHash(a2), "0", a2) != keyA {
		t.Error("identical request produced a different key")
	}
}

func TestCacheKeyChangesWithVersion(t *testing.T) {
	c := cacheCtx(t, http.MethodGet, "/v1/movies?page=1", "Bearer token-a")
	caller := callerHash(c)

	before := cacheKey("cache", caller, "0", c)
	after := cacheKey("cache", caller, "1", c)
	if before == after {
		t.Error("version bump did not invalidate the key; mutations would serve stale pages")
	}
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	p1 := cacheCtx(t, http.MethodGet, "/v1/movies?page=1", "Bearer t")
	p2 := cacheCtx(t, http.MethodGet, "/v1/movies?page=2", "Bearer t")
	if cacheKey("cache", callerHash(p1), "0", p1) == cacheKey("cache", callerHash(p2), "0", p2) {
		t.Error("different pages share a cache key")
	}
}

func TestIsMutation(t *testing.T) {
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if !isMutation(m) {
			t.Errorf("%s not treated as a mutation", m)
		}
	}
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if isMutation(m) {
			t.Errorf("%s treated as a mutation", m)
		}
	}
}

func TestBodyRecorderSkipsOversizedBodies(t *testing.T) {
	rec := &bodyRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
	if _, err := rec.Write([]byte("12345")); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Write([]byte("67890")); err != nil {
		t.Fatal(err)
	}
	if !rec.oversized {
		t.Error("body over the limit not flagged")
	}
	if rec.buf.Len() != 0 {
		t.Error("partial body retained; a truncated entry must never be cached")
	}
}
