package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/postboard/internal/middleware"
	"github.com/hitoshi/postboard/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
// 全メソッドはリクエストの利用者コンテキストを受け取り、認証確認はサービス側で行う。
type PostServiceInterface interface {
	ListPosts(ctx context.Context, ident model.Identity, page int) (*postListResponse, error)
	GetPost(ctx context.Context, ident model.Identity, id string) (*postResponse, error)
	CreatePost(ctx context.Context, ident model.Identity, input model.PostInput) (*postResponse, error)
	UpdatePost(ctx context.Context, ident model.Identity, id string, input model.PostInput) (*postResponse, error)
	DeletePost(ctx context.Context, ident model.Identity, id string) error
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// postRequest は投稿作成・更新リクエストのボディ。
type postRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type creatorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	ImageURL  string          `json:"imageUrl"`
	Creator   creatorResponse `json:"creator"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// postListResponse は投稿一覧のAPIレスポンス。
type postListResponse struct {
	Posts      []postResponse `json:"posts"`
	TotalPosts int            `json:"totalPosts"`
}

type postMutationResponse struct {
	Message string       `json:"message"`
	Post    postResponse `json:"post"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ListPosts は投稿一覧を返す。
// GET /api/posts?page=N
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query().Get("page"))

	result, err := h.service.ListPosts(r.Context(), identityOf(r), page)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetPost は投稿詳細を返す。
// GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPost(r.Context(), identityOf(r), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postMutationResponse{Message: "Post fetched.", Post: *p})
}

// CreatePost は投稿を作成する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ident := identityOf(r)
	// ボディ解析より前に認証状態を確認する
	if !ident.Authenticated {
		middleware.WriteError(w, r, model.NewNotAuthenticatedError())
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	p, err := h.service.CreatePost(r.Context(), ident, req.toInput())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, postMutationResponse{Message: "Post created successfully!", Post: *p})
}

// UpdatePost は投稿を更新する。作成者本人のみ実行できる。
// PUT /api/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ident := identityOf(r)
	if !ident.Authenticated {
		middleware.WriteError(w, r, model.NewNotAuthenticatedError())
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	p, err := h.service.UpdatePost(r.Context(), ident, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postMutationResponse{Message: "Post updated!", Post: *p})
}

// DeletePost は投稿を削除する。作成者本人のみ実行できる。
// DELETE /api/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), identityOf(r), chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Deleted post."})
}

func (req postRequest) toInput() model.PostInput {
	return model.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
}

// parsePage はクエリ文字列のページ番号を解析する。
// 数値でない場合は1ページ目とする。
// intの範囲を超える正の値は最終ページより後ろとして扱う。
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && page > 0 {
		return math.MaxInt
	}
	if err != nil || page < 1 {
		return 1
	}
	return page
}
