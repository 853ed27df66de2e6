package model

import "time"

// Post はユーザーが投稿する短文コンテンツを表す。
// CreatorID は作成後に変更されない。
type Post struct {
	ID          string
	Seq         int64
	Title       string
	Content     string
	ImageURL    string
	CreatorID   string
	CreatorName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostInput は投稿の作成・更新時の入力を表す。
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PageResult はページングされた一覧と総件数を表す。
type PageResult[T any] struct {
	Items      []T
	TotalCount int
}
