package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func newTestIssuer(t *testing.T, secret string, clock *fakeClock) *Issuer {
	t.Helper()
	issuer, err := NewIssuer([]byte(secret), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return issuer
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewIssuer(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssuer_IssueAndDecode(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, "test-secret-0123456789", clock)

	token, err := issuer.Issue("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Email != "test@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h TTL, got %v", got)
	}
}

func TestIssuer_Issue_RequiresSubject(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	issuer := newTestIssuer(t, "test-secret-0123456789", clock)

	if _, err := issuer.Issue("  ", "test@example.com"); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

// TestIssuer_ExpiryBoundary は [T, T+1h) で有効、T+1h 以降で無効になることを検証する。
func TestIssuer_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{current: issuedAt}
	issuer := newTestIssuer(t, "test-secret-0123456789", clock)

	token, err := issuer.Issue("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name      string
		at        time.Time
		wantValid bool
	}{
		{name: "発行時刻", at: issuedAt, wantValid: true},
		{name: "30分後", at: issuedAt.Add(30 * time.Minute), wantValid: true},
		{name: "期限の1秒前", at: issuedAt.Add(time.Hour - time.Second), wantValid: true},
		{name: "期限ちょうど", at: issuedAt.Add(time.Hour), wantValid: false},
		{name: "期限の1日後", at: issuedAt.Add(25 * time.Hour), wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.current = tt.at
			res := issuer.Inspect(token)
			if res.Valid() != tt.wantValid {
				t.Fatalf("Valid() = %v, want %v (failure=%q)", res.Valid(), tt.wantValid, res.Failure)
			}
			if !tt.wantValid && res.Failure != FailureExpired {
				t.Errorf("expected failure %q, got %q", FailureExpired, res.Failure)
			}
		})
	}
}

// TestIssuer_Decode_CollapsesFailures は失敗原因によらず同一のエラーになることを検証する。
func TestIssuer_Decode_CollapsesFailures(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{current: issuedAt}
	issuer := newTestIssuer(t, "test-secret-0123456789", clock)
	other := newTestIssuer(t, "another-secret-9876543210", clock)

	valid, err := issuer.Issue("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, err := other.Issue("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name        string
		token       string
		at          time.Time
		wantFailure DecodeFailure
	}{
		{name: "空文字列", token: "", at: issuedAt, wantFailure: FailureMalformed},
		{name: "形式不正", token: "not-a-jwt", at: issuedAt, wantFailure: FailureMalformed},
		{name: "別の鍵で署名", token: foreign, at: issuedAt, wantFailure: FailureSignature},
		{name: "署名改ざん", token: tampered, at: issuedAt, wantFailure: FailureSignature},
		{name: "alg=none", token: none, at: issuedAt, wantFailure: FailureSignature},
		{name: "期限切れ", token: valid, at: issuedAt.Add(2 * time.Hour), wantFailure: FailureExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.current = tt.at

			claims, err := issuer.Decode(tt.token)
			if claims != nil {
				t.Errorf("expected nil claims, got %+v", claims)
			}
			if !errors.Is(err, ErrInvalidToken) || err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}

			if got := issuer.Inspect(tt.token).Failure; got != tt.wantFailure {
				t.Errorf("Inspect failure = %q, want %q", got, tt.wantFailure)
			}
		})
	}
}

// TestIssuer_SecretRotation は鍵を変更すると既存トークンが無効になることを検証する。
func TestIssuer_SecretRotation(t *testing.T) {
	clock := &fakeClock{current: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	oldIssuer := newTestIssuer(t, "old-secret-0123456789", clock)
	newIssuer := newTestIssuer(t, "new-secret-0123456789", clock)

	token, err := oldIssuer.Issue("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := newIssuer.Decode(token); err == nil {
		t.Fatal("expected rotated secret to reject token")
	}
}
