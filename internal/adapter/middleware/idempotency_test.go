package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mcredit-backend/internal/domain/user"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const validKey = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// helper: new Echo with the session + idempotency chain and one route
func setupEcho(rdb *redis.Client, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(LoadSession(fakeAuth{
		"u1": {UserID: 1, Role: user.RoleCustomer},
		"u2": {UserID: 2, Role: user.RoleCustomer},
	}, zap.NewNop()))
	e.Use(Idempotency(rdb, time.Minute, zap.NewNop()))
	e.POST("/api/loan-applications", handler)
	e.GET("/api/loan-applications", handler)
	return e
}

func doReq(e *echo.Echo, method, sid, key string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, "/api/loan-applications", r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func countingHandler(n *int32, code int) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := atomic.AddInt32(n, 1)
		return c.JSON(code, map[string]any{"call": v})
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))

	doReq(e, http.MethodPost, "u1", "", map[string]int{"loanAmount": 10000})
	doReq(e, http.MethodPost, "u1", "", map[string]int{"loanAmount": 10000})
	if n != 2 {
		t.Fatalf("handler calls = %d, want 2", n)
	}
}

func TestIdempotency_GETBypass(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusOK))

	doReq(e, http.MethodGet, "u1", validKey, nil)
	doReq(e, http.MethodGet, "u1", validKey, nil)
	if n != 2 {
		t.Fatalf("GET must never be deduplicated, calls = %d", n)
	}
}

func TestIdempotency_InvalidKey(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))

	rec := doReq(e, http.MethodPost, "u1", "not-a-key", map[string]int{"x": 1})
	if rec.Code != http.StatusBadRequest || n != 0 {
		t.Fatalf("invalid key: status=%d calls=%d", rec.Code, n)
	}
}

func TestIdempotency_ReplaysFirstResponse(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))
	body := map[string]int{"loanAmount": 20000}

	first := doReq(e, http.MethodPost, "u1", validKey, body)
	second := doReq(e, http.MethodPost, "u1", validKey, body)

	if n != 1 {
		t.Fatalf("handler calls = %d, want 1", n)
	}
	if second.Code != http.StatusCreated || strings.TrimSpace(second.Body.String()) != strings.TrimSpace(first.Body.String()) {
		t.Fatalf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}

	key := buildKey(http.MethodPost, "/api/loan-applications", "1", validKey)
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("final entry ttl = %v, want (0,1m]", ttl)
	}
}

func TestIdempotency_ScopedPerUser(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))
	body := map[string]int{"loanAmount": 20000}

	doReq(e, http.MethodPost, "u1", validKey, body)
	doReq(e, http.MethodPost, "u2", validKey, body)
	if n != 2 {
		t.Fatalf("same key for different users must not collide, calls = %d", n)
	}
}

func TestIdempotency_DifferentBodyConflicts(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))

	doReq(e, http.MethodPost, "u1", validKey, map[string]int{"loanAmount": 20000})
	rec := doReq(e, http.MethodPost, "u1", validKey, map[string]int{"loanAmount": 30000})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestIdempotency_InProgressConflicts(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))
	body := map[string]int{"loanAmount": 20000}

	b, _ := json.Marshal(body)
	key := buildKey(http.MethodPost, "/api/loan-applications", "1", validKey)
	ok, err := provisionalSet(context.Background(), rdb, key, idempEntry{InProgress: true, BodySHA256: bodyHash(b)})
	if err != nil || !ok {
		t.Fatalf("provisionalSet: %v %v", ok, err)
	}

	rec := doReq(e, http.MethodPost, "u1", validKey, body)
	if rec.Code != http.StatusConflict || n != 0 {
		t.Fatalf("in-progress: status=%d calls=%d", rec.Code, n)
	}
}

func TestIdempotency_FailuresAreNotReplayed(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusUnprocessableEntity))
	body := map[string]int{"loanAmount": 5}

	doReq(e, http.MethodPost, "u1", validKey, body)
	doReq(e, http.MethodPost, "u1", validKey, body)
	if n != 2 {
		t.Fatalf("failed requests should be retryable, calls = %d", n)
	}
}

func TestIdempotency_StoreDown(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, countingHandler(&n, http.StatusCreated))
	mr.Close()

	rec := doReq(e, http.MethodPost, "u1", validKey, map[string]int{"x": 1})
	if rec.Code != http.StatusServiceUnavailable || n != 0 {
		t.Fatalf("store down: status=%d calls=%d", rec.Code, n)
	}
}
