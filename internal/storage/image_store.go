// Package storage は投稿画像ファイルの削除を提供する。
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot は画像URLが保存ディレクトリ外を指していることを示す。
var ErrOutsideRoot = errors.New("image path escapes storage root")

// LocalImageStore はローカルディスク上の画像ディレクトリを扱う。
type LocalImageStore struct {
	root string
}

// NewLocalImageStore はLocalImageStoreを生成する。
func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: filepath.Clean(root)}
}

// Remove は画像URLが指すファイルを削除する。
// 画像URLが空の場合は何もしない。
func (s *LocalImageStore) Remove(ctx context.Context, imageURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil
	}

	p, err := s.Resolve(imageURL)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", p, err)
	}
	return nil
}

// Resolve は画像URLを保存ディレクトリ配下のファイルパスに変換する。
// "images/a.png"、"/images/a.png"、"http://host/images/a.png" はいずれも root/a.png になる。
func (s *LocalImageStore) Resolve(imageURL string) (string, error) {
	raw := imageURL
	if u, err := url.Parse(imageURL); err == nil && u.Scheme != "" {
		raw = u.Path
	}

	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(raw)), "/")
	rel = strings.TrimPrefix(rel, filepath.Base(s.root)+"/")
	if rel == "" || rel == "." {
		return "", ErrOutsideRoot
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(s.root, full)
	if err != nil || within == "." || strings.HasPrefix(within, "..") {
		return "", ErrOutsideRoot
	}
	return full, nil
}
