// Package pagination はページ番号と固定ページサイズから取得範囲を算出する。
package pagination

import "math"

// DefaultPageSize は1ページあたりの件数。クライアントからは変更できない。
const DefaultPageSize = 2

// Window はページ取得範囲を表す。
type Window struct {
	Skip int
	Take int
}

// Paginator は固定ページサイズで取得範囲を算出する。
type Paginator struct {
	pageSize int
}

// NewPaginator は新しいPaginatorを生成する。
// pageSizeが0以下の場合はDefaultPageSizeを使用する。
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize}
}

// PageSize は1ページあたりの件数を返す。
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Window はページ番号から取得範囲を算出する。
// ページ番号が0以下の場合は1ページ目として扱う。
// 総件数を超えるページ番号でもクランプしない。
// Skipがintの範囲を超える場合はmath.MaxIntに飽和させる。
func (p *Paginator) Window(page int) Window {
	page = NormalizePage(page)
	skip := math.MaxInt
	if page-1 <= math.MaxInt/p.pageSize {
		skip = (page - 1) * p.pageSize
	}
	return Window{
		Skip: skip,
		Take: p.pageSize,
	}
}

// NormalizePage はページ番号を1以上に正規化する。
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
