// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/authz"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/repository"
	"github.com/hitoshi/postboard/internal/validation"
)

// Service はユーザー管理のサービス層。
// 認証済みユーザー自身のステータス参照・更新を提供する。
type Service struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetStatus は認証済みユーザーのステータスを返す。
func (s *Service) GetStatus(ctx context.Context, ident model.Identity) (string, error) {
	u, err := s.currentUser(ctx, ident)
	if err != nil {
		return "", err
	}
	return u.Status, nil
}

// UpdateStatus は認証済みユーザーのステータスを更新する。
func (s *Service) UpdateStatus(ctx context.Context, ident model.Identity, status string) (string, error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return "", err
	}
	status = strings.TrimSpace(status)
	if err := validation.CheckStatus(status); err != nil {
		return "", err
	}

	u, err := s.currentUser(ctx, ident)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateStatus(ctx, u.ID, status, s.now()); err != nil {
		return "", fmt.Errorf("ステータスの更新に失敗しました: %w", err)
	}

	slog.Info("user status updated",
		slog.String("user_id", u.ID),
	)
	return status, nil
}

// currentUser は認証確認の後、リクエスト主体のユーザーを取得する。
// UUIDとして不正な主体IDは未登録のユーザーとして扱う。
func (s *Service) currentUser(ctx context.Context, ident model.Identity) (*model.User, error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(ident.SubjectID); err != nil {
		return nil, model.NewNotFoundError(model.MsgUserNotFound)
	}
	u, err := s.userRepo.FindByID(ctx, ident.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewNotFoundError(model.MsgUserNotFound)
	}
	return u, nil
}
