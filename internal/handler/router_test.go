package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/postboard/internal/auth"
	"github.com/hitoshi/postboard/internal/middleware"
	"github.com/hitoshi/postboard/internal/model"
)

// --- モック定義 ---

// mapTokenInspector はトークン文字列と利用者IDの対応表で検証するモック。
type mapTokenInspector struct {
	subjects map[string]string
}

func (m *mapTokenInspector) Inspect(token string) auth.DecodeResult {
	subject, ok := m.subjects[token]
	if !ok {
		return auth.DecodeResult{Failure: auth.FailureSignature}
	}
	claims := &auth.Claims{}
	claims.Subject = subject
	return auth.DecodeResult{Claims: claims}
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}

// createTestRouter はテスト用の完全なルーターを構築するヘルパー。
func createTestRouter(t *testing.T, mutate func(deps *RouterDeps)) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		TokenInspector:    &mapTokenInspector{subjects: map[string]string{"valid-token": "user-test-1"}},
		CORSAllowedOrigin: "*",
		RateLimiter:       rl,
		HealthChecker:     &mockHealthChecker{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "# metrics\n")
		}),
		AuthService: &mockAuthService{},
		PostService: &mockPostService{},
		UserService: &mockUserService{},
	}
	if mutate != nil {
		mutate(deps)
	}
	return NewRouter(deps)
}

// --- テスト ---

func TestRouter_BearerTokenResolvesIdentity(t *testing.T) {
	var got model.Identity
	router := createTestRouter(t, func(deps *RouterDeps) {
		deps.PostService = &mockPostService{
			listFn: func(ctx context.Context, ident model.Identity, page int) (*postListResponse, error) {
				got = ident
				return &postListResponse{Posts: []postResponse{}}, nil
			},
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !got.Authenticated || got.SubjectID != "user-test-1" {
		t.Errorf("identity = %+v, want authenticated user-test-1", got)
	}
}

func TestRouter_InvalidTokenIsAnonymousNotRejected(t *testing.T) {
	var got model.Identity
	called := false
	router := createTestRouter(t, func(deps *RouterDeps) {
		deps.PostService = &mockPostService{
			getFn: func(ctx context.Context, ident model.Identity, id string) (*postResponse, error) {
				called = true
				got = ident
				return nil, model.NewNotAuthenticatedError()
			},
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/posts/post-1", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if !called {
		t.Fatal("handler should be reached with an invalid token")
	}
	if got.Authenticated {
		t.Error("identity should be anonymous")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_Routes(t *testing.T) {
	router := createTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/auth/signup", `{"email":"a@example.com","password":"abcd"}`, http.StatusCreated},
		{http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"abcd"}`, http.StatusOK},
		{http.MethodGet, "/api/posts", "", http.StatusOK},
		{http.MethodPost, "/api/posts", `{"title":"Hello","content":"World!"}`, http.StatusCreated},
		{http.MethodGet, "/api/posts/p1", "", http.StatusOK},
		{http.MethodPut, "/api/posts/p1", `{"title":"Hello","content":"World!"}`, http.StatusOK},
		{http.MethodDelete, "/api/posts/p1", "", http.StatusOK},
		{http.MethodGet, "/api/users/me/status", "", http.StatusOK},
		{http.MethodPut, "/api/users/me/status", `{"status":"busy"}`, http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Authorization", "Bearer valid-token")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body=%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRouter_UnknownRoute_ReturnsEnvelope(t *testing.T) {
	router := createTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeErrorBody(t, w); body.StatusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want %d", body.StatusCode, http.StatusNotFound)
	}
}

// TestRouter_MethodNotAllowed_ReturnsEnvelope は未対応メソッドもエラーレスポンス形式で返ることを検証する。
func TestRouter_MethodNotAllowed_ReturnsEnvelope(t *testing.T) {
	router := createTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/auth/login"},
		{http.MethodGet, "/auth/login"},
		{http.MethodPatch, "/api/posts/11111111-1111-4111-8111-111111111111"},
		{http.MethodDelete, "/api/users/me/status"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer valid-token")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/json")
			}
			body := decodeErrorBody(t, w)
			if body.StatusCode != http.StatusMethodNotAllowed || body.Message != "Method not allowed" {
				t.Errorf("unexpected body: %+v", body)
			}
		})
	}
}

func TestRouter_HealthUnavailable(t *testing.T) {
	router := createTestRouter(t, func(deps *RouterDeps) {
		deps.HealthChecker = &mockHealthChecker{err: errors.New("db down")}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_AuthRoutesRateLimitedPerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		AuthRate:        0.001,
		AuthBurst:       2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	router := createTestRouter(t, func(deps *RouterDeps) {
		deps.RateLimiter = rl
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@example.com","password":"abcd"}`))
		req.RemoteAddr = "203.0.113.5:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRouter_SecurityAndCORSHeaders(t *testing.T) {
	router := createTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want %q", got, "no-store")
	}
	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'none'; frame-ancestors 'none'" {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}
