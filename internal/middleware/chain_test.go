package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/postboard/internal/auth"
)

type stubHTTPMetrics struct {
	statuses []int
	observed int
}

func (s *stubHTTPMetrics) RecordHTTPStatus(statusCode int) {
	s.statuses = append(s.statuses, statusCode)
}

func (s *stubHTTPMetrics) RecordRequestLatency(time.Duration) {
	s.observed++
}

// TestMiddlewareChain_AnonymousReachesHandler は
// 認証情報なしのリクエストもハンドラーまで到達することを検証する。
func TestMiddlewareChain_AnonymousReachesHandler(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(10, 10))
	defer rl.Stop()

	handlerCalled := false
	handler := NewRecoveryMiddleware()(
		NewSecurityHeadersMiddleware()(
			NewIdentityMiddleware(&stubInspector{failure: auth.FailureSignature}, nil)(
				rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					handlerCalled = true
					if IdentityFromContext(r.Context()).Authenticated {
						t.Error("expected anonymous identity")
					}
					w.WriteHeader(http.StatusOK)
				})),
			),
		),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Fatal("handler should have been called")
	}
	if w.Result().Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

// TestMiddlewareChain_PanicIsNormalized はpanicが統一フォーマットの500になることを検証する。
func TestMiddlewareChain_PanicIsNormalized(t *testing.T) {
	handler := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Result().StatusCode)
	}
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Message != "An error occurred" || body.StatusCode != 500 {
		t.Errorf("unexpected body: %+v", body)
	}
}

// TestRecoveryMiddleware_AbortHandlerPropagates はhttp.ErrAbortHandlerが握りつぶされないことを検証する。
func TestRecoveryMiddleware_AbortHandlerPropagates(t *testing.T) {
	handler := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered = %v, want http.ErrAbortHandler", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	t.Error("expected panic to propagate")
}

// TestMetricsMiddleware_RecordsStatus はステータスコードとレイテンシが記録されることを検証する。
func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	recorder := &stubHTTPMetrics{}
	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/posts", nil))

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusCreated {
		t.Errorf("statuses = %v, want [201]", recorder.statuses)
	}
	if recorder.observed != 1 {
		t.Errorf("observed = %d, want 1", recorder.observed)
	}
}
