package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "postboard"

	// DefaultTokenTTL はIDトークンの有効期間。
	DefaultTokenTTL = time.Hour
)

// ErrInvalidToken はトークンが有効なIDとして扱えないことを示す。
// 形式不正・署名不一致・期限切れを区別しない。
var ErrInvalidToken = errors.New("invalid token")

// DecodeFailure はトークン検証失敗の内部的な原因。
// ログとメトリクスにのみ使用し、クライアントには返さない。
type DecodeFailure string

const (
	FailureNone      DecodeFailure = ""
	FailureMalformed DecodeFailure = "malformed"
	FailureSignature DecodeFailure = "signature"
	FailureExpired   DecodeFailure = "expired"
	FailureClaims    DecodeFailure = "claims"
)

// Claims はIDトークンのクレーム。Subjectに利用者IDを格納する。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// DecodeResult はトークン検証の内部結果。
type DecodeResult struct {
	Claims  *Claims
	Failure DecodeFailure
}

// Valid は検証に成功したかどうかを返す。
func (r DecodeResult) Valid() bool {
	return r.Failure == FailureNone && r.Claims != nil
}

// Issuer はHS256署名付きのIDトークンを発行・検証する。
// 署名鍵は生成時に注入し、以後変更しない。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption はIssuerの生成オプション。
type IssuerOption func(*Issuer)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithTTL はトークンの有効期間を設定する。
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// NewIssuer はIssuerを生成する。secretが空の場合はエラーを返す。
func NewIssuer(secret []byte, opts ...IssuerOption) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	i := &Issuer{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue は利用者IDとメールアドレスを含むトークンを発行する。
// 有効期限は発行時刻(秒精度)からTTL後。
func (i *Issuer) Issue(subjectID, email string) (string, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", errors.New("subject ID is required")
	}

	issuedAt := i.now().UTC().Truncate(time.Second)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode はトークンの署名と有効期限を検証する。
// 失敗時は原因によらず ErrInvalidToken を返す。
func (i *Issuer) Decode(token string) (*Claims, error) {
	res := i.Inspect(token)
	if !res.Valid() {
		return nil, ErrInvalidToken
	}
	return res.Claims, nil
}

// Inspect はトークンを検証し、失敗原因を含む内部結果を返す。
func (i *Issuer) Inspect(token string) DecodeResult {
	token = strings.TrimSpace(token)
	if token == "" {
		return DecodeResult{Failure: FailureMalformed}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return DecodeResult{Failure: classify(err)}
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return DecodeResult{Failure: FailureClaims}
	}
	return DecodeResult{Claims: claims}
}

func classify(err error) DecodeFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return FailureSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return FailureMalformed
	default:
		return FailureClaims
	}
}
