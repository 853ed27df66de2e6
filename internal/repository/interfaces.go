// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/postboard/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。メールアドレス重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateStatus はユーザーのステータスを更新する。
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの投稿を作成者名付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Create は投稿を作成し、採番された挿入順序をpost.Seqに設定する。
	Create(ctx context.Context, post *model.Post) error

	// Update は投稿のタイトル・本文・画像URL・更新日時を更新する。
	// 作成者は変更しない。
	Update(ctx context.Context, post *model.Post) error

	// DeleteByID は指定IDの投稿を削除する。
	DeleteByID(ctx context.Context, id string) error

	// Count は投稿の総件数を返す。
	Count(ctx context.Context) (int, error)

	// ListPage は作成日時の降順(同時刻は挿入順)で投稿を取得する。
	ListPage(ctx context.Context, skip, take int) ([]*model.Post, error)
}
