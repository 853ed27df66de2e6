// Package validation は入力検証ルールを蓄積型で評価する。
// 最初の違反で打ち切らず、違反したルールごとに1件のFieldErrorを返す。
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/hitoshi/postboard/internal/model"
)

// Predicate は1つの値に対する検証条件。I/Oを行ってはならない。
type Predicate func(value string) bool

// Rule はフィールドと検証条件、違反時メッセージの組。
type Rule struct {
	Field   string
	Message string
	Valid   Predicate
}

// Fields は検証対象のフィールド名と値の対応。
type Fields map[string]string

// Validate はすべてのルールを評価し、違反をルール順に返す。
// 違反がない場合は空のスライスを返す。
func Validate(fields Fields, rules []Rule) []model.FieldError {
	violations := make([]model.FieldError, 0)
	for _, rule := range rules {
		if rule.Valid(fields[rule.Field]) {
			continue
		}
		violations = append(violations, model.FieldError{
			Field:   rule.Field,
			Message: rule.Message,
		})
	}
	return violations
}

// Check はValidateを実行し、違反があれば422のDomainErrorを返す。
func Check(fields Fields, rules []Rule) error {
	violations := Validate(fields, rules)
	if len(violations) == 0 {
		return nil
	}
	return model.NewValidationError(violations)
}

// Email はメールアドレスとして構文的に正しいことを要求する。
func Email() Predicate {
	return func(value string) bool {
		return govalidator.IsEmail(strings.TrimSpace(value))
	}
}

// NotBlank は空白以外の文字を含むことを要求する。
func NotBlank() Predicate {
	return func(value string) bool {
		return strings.TrimSpace(value) != ""
	}
}

// MinLength は文字数(rune数)がmin以上であることを要求する。
func MinLength(min int) Predicate {
	return func(value string) bool {
		return utf8.RuneCountInString(value) >= min
	}
}

// All はすべての条件を満たすことを要求する。
func All(preds ...Predicate) Predicate {
	return func(value string) bool {
		for _, p := range preds {
			if !p(value) {
				return false
			}
		}
		return true
	}
}
