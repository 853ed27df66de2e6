// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/postboard/internal/auth"
	"github.com/hitoshi/postboard/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証状態を格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenInspector はIDトークンの検証に必要なインターフェース。
// auth.Issuerの部分集合として定義する。
type TokenInspector interface {
	Inspect(token string) auth.DecodeResult
}

// TokenRejectionRecorder はトークン検証失敗の記録インターフェース。
type TokenRejectionRecorder interface {
	RecordTokenRejected(reason string)
}

// NewIdentityMiddleware はAuthorizationヘッダーのBearerトークンから
// 認証状態を解決し、リクエストコンテキストに注入するミドルウェアを返す。
// ヘッダーがない、または検証に失敗した場合は未認証として処理を続行する。
// このミドルウェア自身がリクエストを拒否することはない。
func NewIdentityMiddleware(inspector TokenInspector, recorder TokenRejectionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := resolveIdentity(r, inspector, recorder)
			ctx := ContextWithIdentity(r.Context(), ident)
			captureIdentity(ctx, w)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(r *http.Request, inspector TokenInspector, recorder TokenRejectionRecorder) model.Identity {
	header := r.Header.Get("Authorization")
	if header == "" {
		return model.Anonymous()
	}

	token, ok := extractBearerToken(header)
	if !ok {
		reject(r, recorder, auth.FailureMalformed)
		return model.Anonymous()
	}

	res := inspector.Inspect(token)
	if !res.Valid() {
		reject(r, recorder, res.Failure)
		return model.Anonymous()
	}
	return model.Authenticated(res.Claims.Subject)
}

func reject(r *http.Request, recorder TokenRejectionRecorder, failure auth.DecodeFailure) {
	if failure == auth.FailureNone {
		failure = auth.FailureClaims
	}
	if recorder != nil {
		recorder.RecordTokenRejected(string(failure))
	}
	slog.Debug("identity token rejected",
		slog.String("reason", string(failure)),
		slog.String("path", r.URL.Path),
	)
}

// extractBearerToken は "Bearer <token>" 形式からトークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func extractBearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// IdentityFromContext はリクエストコンテキストから認証状態を取得する。
// 未設定の場合は未認証として扱う。
func IdentityFromContext(ctx context.Context) model.Identity {
	ident, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok {
		return model.Anonymous()
	}
	return ident
}

// ContextWithIdentity はコンテキストに認証状態を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// ContextWithUserID は認証済みユーザーIDをコンテキストに注入する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return ContextWithIdentity(ctx, model.Authenticated(userID))
}
