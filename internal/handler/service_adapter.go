package handler

import (
	"context"
	"time"

	"github.com/hitoshi/postboard/internal/auth"
	"github.com/hitoshi/postboard/internal/model"
	"github.com/hitoshi/postboard/internal/post"
	"github.com/hitoshi/postboard/internal/user"
)

// AuthServiceAdapter は auth.Service を AuthServiceInterface に適合させるアダプタ。
type AuthServiceAdapter struct {
	svc *auth.Service
}

// NewAuthServiceAdapter はAuthServiceAdapterを生成する。
func NewAuthServiceAdapter(svc *auth.Service) *AuthServiceAdapter {
	return &AuthServiceAdapter{svc: svc}
}

// Register はユーザーを登録しhandlerレスポンス型で返す。
func (a *AuthServiceAdapter) Register(ctx context.Context, input auth.RegisterInput) (*userResponse, error) {
	u, err := a.svc.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

// Login はログインしてトークンと利用者IDを返す。
func (a *AuthServiceAdapter) Login(ctx context.Context, email, password string) (*loginResponse, error) {
	result, err := a.svc.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &loginResponse{Token: result.Token, UserID: result.UserID}, nil
}

// PostServiceAdapter は post.Service を PostServiceInterface に適合させるアダプタ。
type PostServiceAdapter struct {
	svc *post.Service
}

// NewPostServiceAdapter はPostServiceAdapterを生成する。
func NewPostServiceAdapter(svc *post.Service) *PostServiceAdapter {
	return &PostServiceAdapter{svc: svc}
}

// ListPosts は投稿一覧をhandlerレスポンス型で返す。
func (a *PostServiceAdapter) ListPosts(ctx context.Context, ident model.Identity, page int) (*postListResponse, error) {
	result, err := a.svc.List(ctx, ident, page)
	if err != nil {
		return nil, err
	}

	posts := make([]postResponse, len(result.Items))
	for i, p := range result.Items {
		posts[i] = toPostResponse(p)
	}
	return &postListResponse{Posts: posts, TotalPosts: result.TotalCount}, nil
}

// GetPost は投稿詳細をhandlerレスポンス型で返す。
func (a *PostServiceAdapter) GetPost(ctx context.Context, ident model.Identity, id string) (*postResponse, error) {
	return wrapPost(a.svc.Get(ctx, ident, id))
}

// CreatePost は投稿を作成しhandlerレスポンス型で返す。
func (a *PostServiceAdapter) CreatePost(ctx context.Context, ident model.Identity, input model.PostInput) (*postResponse, error) {
	return wrapPost(a.svc.Create(ctx, ident, input))
}

// UpdatePost は投稿を更新しhandlerレスポンス型で返す。
func (a *PostServiceAdapter) UpdatePost(ctx context.Context, ident model.Identity, id string, input model.PostInput) (*postResponse, error) {
	return wrapPost(a.svc.Update(ctx, ident, id, input))
}

// DeletePost は投稿を削除する。
func (a *PostServiceAdapter) DeletePost(ctx context.Context, ident model.Identity, id string) error {
	return a.svc.Delete(ctx, ident, id)
}

func wrapPost(p *model.Post, err error) (*postResponse, error) {
	if err != nil {
		return nil, err
	}
	resp := toPostResponse(p)
	return &resp, nil
}

// toPostResponse はドメインのPostをhandlerのレスポンス型に変換する。
func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		ImageURL: p.ImageURL,
		Creator: creatorResponse{
			ID:   p.CreatorID,
			Name: p.CreatorName,
		},
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

// toUserResponse はドメインのUserをhandlerのレスポンス型に変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Status: u.Status,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// --- compile-time interface checks ---

var _ AuthServiceInterface = (*AuthServiceAdapter)(nil)
var _ PostServiceInterface = (*PostServiceAdapter)(nil)
var _ UserServiceInterface = (*user.Service)(nil)
