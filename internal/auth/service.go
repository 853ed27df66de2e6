// Package auth はパスワード照合、IDトークンの発行・検証、ユーザー登録とログインを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
	"github.com/hitoshi/postboard/internal/validation"
)

// RegisterInput はユーザー登録の入力を表す。
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult はログイン成功時に返すトークンと利用者ID。
type LoginResult struct {
	Token  string
	UserID string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	issuer   *Issuer
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher *PasswordHasher, issuer *Issuer) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Register は入力を検証し、新規ユーザーを作成する。
// 返却するユーザーにはパスワードハッシュを含めない。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validation.CheckSignup(input.Email, input.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return nil, model.NewConflictError(model.MsgUserExists)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Status:       model.DefaultUserStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に抵触した場合
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewConflictError(model.MsgUserExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered", slog.String("user_id", user.ID))

	created := *user
	created.PasswordHash = ""
	return &created, nil
}

// Login はメールアドレスとパスワードを照合し、IDトークンを発行する。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewAuthenticationError(model.MsgUserNotFound)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, model.NewAuthenticationError(model.MsgPasswordIncorrect)
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
