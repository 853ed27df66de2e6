// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultUserStatus は新規登録ユーザーの初期ステータス。
const DefaultUserStatus = "I am new!"

// User はサービス利用ユーザーを表す。
// PasswordHash はAPIレスポンスに含めない。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity はリクエスト単位の認証状態を表す。
// IDミドルウェアが1リクエストにつき1度だけ生成し、以後変更しない。
type Identity struct {
	Authenticated bool
	SubjectID     string
}

// Anonymous は未認証の Identity を返す。
func Anonymous() Identity {
	return Identity{}
}

// Authenticated は認証済みの Identity を返す。
func Authenticated(subjectID string) Identity {
	return Identity{Authenticated: true, SubjectID: subjectID}
}
