// Package post は投稿管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/postboard/internal/authz"
	"github.com/hitoshi/postboard/internal/metrics"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/pagination"
	"github.com/hitoshi/postboard/internal/repository"
	"github.com/hitoshi/postboard/internal/validation"
)

// ImageRemover は投稿画像ファイルの削除インターフェース。
type ImageRemover interface {
	Remove(ctx context.Context, imageURL string) error
}

// Sanitizer は投稿テキストの無害化インターフェース。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service は投稿管理のサービス層。
// すべての操作は認証確認を最初に行い、ストレージへのアクセスはその後に限る。
type Service struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	paginator *pagination.Paginator
	sanitizer Sanitizer
	images    ImageRemover
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsCollectorがnilの場合は記録を行わない。
func NewService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	paginator *pagination.Paginator,
	sanitizer Sanitizer,
	images ImageRemover,
	metricsCollector metrics.MetricsCollector,
) *Service {
	if metricsCollector == nil {
		metricsCollector = metrics.Nop{}
	}
	return &Service{
		postRepo:  postRepo,
		userRepo:  userRepo,
		paginator: paginator,
		sanitizer: sanitizer,
		images:    images,
		metrics:   metricsCollector,
		now:       time.Now,
	}
}

// List は指定ページの投稿と総件数を返す。
// 総件数を超えるページでは空の一覧と正しい総件数を返す。
func (s *Service) List(ctx context.Context, ident model.Identity, page int) (*model.PageResult[*model.Post], error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return nil, err
	}

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("投稿件数の取得に失敗しました: %w", err)
	}

	w := s.paginator.Window(page)
	posts, err := s.postRepo.ListPage(ctx, w.Skip, w.Take)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	return &model.PageResult[*model.Post]{Items: posts, TotalCount: total}, nil
}

// Get は指定IDの投稿を返す。
func (s *Service) Get(ctx context.Context, ident model.Identity, id string) (*model.Post, error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return nil, err
	}

	p, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError(model.MsgPostNotFound)
	}
	return p, nil
}

// Create は入力を検証し、認証済みユーザーを作成者として投稿を作成する。
func (s *Service) Create(ctx context.Context, ident model.Identity, input model.PostInput) (*model.Post, error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return nil, err
	}

	input = s.sanitize(input)
	if err := validation.CheckPost(input.Title, input.Content); err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(ident.SubjectID); err != nil {
		return nil, model.NewAuthenticationError(model.MsgInvalidUser)
	}
	creator, err := s.userRepo.FindByID(ctx, ident.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("作成者の取得に失敗しました: %w", err)
	}
	if creator == nil {
		return nil, model.NewAuthenticationError(model.MsgInvalidUser)
	}

	now := s.now()
	p := &model.Post{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Content:     input.Content,
		ImageURL:    input.ImageURL,
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}

	s.metrics.RecordPostCreated()
	slog.Info("post created",
		slog.String("post_id", p.ID),
		slog.String("user_id", creator.ID),
	)
	return p, nil
}

// Update は所有者による投稿の更新を行う。
// 画像URLが空の場合は既存の画像を維持し、変更された場合は旧画像を削除する。
func (s *Service) Update(ctx context.Context, ident model.Identity, id string, input model.PostInput) (*model.Post, error) {
	p, err := s.authorizeMutation(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	input = s.sanitize(input)
	if err := validation.CheckPost(input.Title, input.Content); err != nil {
		return nil, err
	}

	previousImage := p.ImageURL
	p.Title = input.Title
	p.Content = input.Content
	if input.ImageURL != "" {
		p.ImageURL = input.ImageURL
	}
	p.UpdatedAt = s.now()

	if err := s.postRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}

	if previousImage != "" && previousImage != p.ImageURL {
		s.removeImage(ctx, p.ID, previousImage)
	}

	slog.Info("post updated",
		slog.String("post_id", p.ID),
		slog.String("user_id", ident.SubjectID),
	)
	return p, nil
}

// Delete は所有者による投稿の削除を行う。
// 画像の削除失敗はログに記録するのみで、操作の失敗としない。
func (s *Service) Delete(ctx context.Context, ident model.Identity, id string) error {
	p, err := s.authorizeMutation(ctx, ident, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.DeleteByID(ctx, p.ID); err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}

	s.removeImage(ctx, p.ID, p.ImageURL)
	s.metrics.RecordPostDeleted()
	slog.Info("post deleted",
		slog.String("post_id", p.ID),
		slog.String("user_id", ident.SubjectID),
	)
	return nil
}

// authorizeMutation は変更操作の認可を 認証確認 → 取得 → 所有者確認 の順で行う。
func (s *Service) authorizeMutation(ctx context.Context, ident model.Identity, id string) (*model.Post, error) {
	if err := authz.RequireAuthenticated(ident); err != nil {
		return nil, err
	}

	p, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	var creatorID string
	if p != nil {
		creatorID = p.CreatorID
	}
	if err := authz.RequireOwnedResource(ident, p != nil, creatorID, model.MsgPostNotFound); err != nil {
		return nil, err
	}
	return p, nil
}

// findPost は投稿を取得する。UUIDとして不正なIDは未検出として扱う。
func (s *Service) findPost(ctx context.Context, id string) (*model.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	p, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	return p, nil
}

func (s *Service) sanitize(input model.PostInput) model.PostInput {
	if s.sanitizer == nil {
		return input
	}
	input.Title = s.sanitizer.Sanitize(input.Title)
	input.Content = s.sanitizer.Sanitize(input.Content)
	return input
}

func (s *Service) removeImage(ctx context.Context, postID, imageURL string) {
	if s.images == nil || imageURL == "" {
		return
	}
	if err := s.images.Remove(ctx, imageURL); err != nil {
		s.metrics.RecordImageRemovalFailure()
		slog.Warn("failed to remove post image",
			slog.String("post_id", postID),
			slog.String("image_url", imageURL),
			slog.String("error", err.Error()),
		)
	}
}
