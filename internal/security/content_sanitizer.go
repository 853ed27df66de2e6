// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は投稿のタイトル・本文からHTMLを除去する。
// bluemondayのStrictPolicyを使用し、すべてのタグと属性を取り除く。
// 結果はエンティティ参照を含まないプレーンテキストとして保存される。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキスト化の機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize はすべてのHTML要素を除去し、前後の空白を取り除いた文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// maxSanitizePasses はエスケープ済みマークアップを展開して再除去する最大回数。
const maxSanitizePasses = 4

// Sanitize はHTMLを除去し、エンティティ参照を元の文字に戻したテキストを返す。
// "&lt;b&gt;" のように展開後にタグとなる入力は、出力が変化しなくなるまで除去を繰り返す。
func (s *textSanitizer) Sanitize(raw string) string {
	out := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

var _ TextSanitizer = (*textSanitizer)(nil)
