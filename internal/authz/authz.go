// Package authz は操作単位の認可判定を提供する。
//
// 判定は 認証確認 → リソース取得 → 所有者確認 の順に行い、
// いずれかで失敗した時点で操作を終了する。
package authz

import (
	"strings"

	"github.com/hitoshi/postboard/internal/model"
)

// RequireAuthenticated は認証済みであることを要求する。
// ストレージへのアクセスより前に呼び出すこと。
func RequireAuthenticated(ident model.Identity) error {
	if !ident.Authenticated || ident.SubjectID == "" {
		return model.NewNotAuthenticatedError()
	}
	return nil
}

// RequireOwner はリソースの作成者とリクエスト主体が一致することを要求する。
// 更新・削除のすべての変更操作で共通に使用する。
func RequireOwner(ident model.Identity, creatorID string) error {
	if NormalizeID(creatorID) != NormalizeID(ident.SubjectID) {
		return model.NewNotAuthorizedError()
	}
	return nil
}

// RequireOwnedResource は取得済みリソースに対して未検出判定と所有者確認を行う。
// found が false の場合は所有者確認を行わずに404を返す。
func RequireOwnedResource(ident model.Identity, found bool, creatorID, notFoundMessage string) error {
	if !found {
		return model.NewNotFoundError(notFoundMessage)
	}
	return RequireOwner(ident, creatorID)
}

// NormalizeID は比較用にIDを正規化する。
// UUIDは大文字小文字を区別せずに比較する。
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
