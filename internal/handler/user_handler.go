package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/postboard/internal/middleware"
	"github.com/hitoshi/postboard/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	GetStatus(ctx context.Context, ident model.Identity) (string, error)
	UpdateStatus(ctx context.Context, ident model.Identity, status string) (string, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// GetStatus は認証済みユーザーのステータスを返す。
// GET /api/users/me/status
func (h *UserHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetStatus(r.Context(), identityOf(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

// UpdateStatus は認証済みユーザーのステータスを更新する。
// PUT /api/users/me/status
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident := identityOf(r)
	if !ident.Authenticated {
		middleware.WriteError(w, r, model.NewNotAuthenticatedError())
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	status, err := h.service.UpdateStatus(r.Context(), ident, req.Status)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}
