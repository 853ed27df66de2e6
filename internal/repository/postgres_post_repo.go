package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/postboard/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.seq, p.title, p.content, p.image_url, p.creator_id,
	       COALESCE(u.name, ''), p.created_at, p.updated_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.creator_id`

// FindByID は指定IDの投稿を作成者名付きで取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id).Scan(postFields(post)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}
	return post, nil
}

// Create は投稿を作成し、採番された挿入順序をpost.Seqに設定する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING seq`,
		post.ID, post.Title, post.Content, post.ImageURL, post.CreatorID, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.Seq)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Update は投稿のタイトル・本文・画像URL・更新日時を更新する。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, image_url = $3, updated_at = $4 WHERE id = $5`,
		post.Title, post.Content, post.ImageURL, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireAffected(result, post.ID)
}

// DeleteByID は指定IDの投稿を削除する。
func (r *PostgresPostRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(result, id)
}

// Count は投稿の総件数を返す。
func (r *PostgresPostRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// ListPage は作成日時の降順(同時刻は挿入順)で投稿を取得する。
func (r *PostgresPostRepo) ListPage(ctx context.Context, skip, take int) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		postSelect+` ORDER BY p.created_at DESC, p.seq ASC LIMIT $1 OFFSET $2`,
		take, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, take)
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(postFields(post)...); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}
	return posts, nil
}

func postFields(p *model.Post) []any {
	return []any{
		&p.ID, &p.Seq, &p.Title, &p.Content, &p.ImageURL, &p.CreatorID,
		&p.CreatorName, &p.CreatedAt, &p.UpdatedAt,
	}
}

func requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
