package validation

// フィールド名
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldStatus   = "status"
)

// 最小文字数
const (
	MinPasswordLength = 4
	MinTitleLength    = 4
	MinContentLength  = 5
)

// SignupRules はユーザー登録時のルール。
var SignupRules = []Rule{
	{Field: FieldEmail, Message: "E-Mail is invalid", Valid: Email()},
	{Field: FieldPassword, Message: "Password too short", Valid: All(NotBlank(), MinLength(MinPasswordLength))},
}

// PostRules は投稿の作成・更新時のルール。
var PostRules = []Rule{
	{Field: FieldTitle, Message: "Title is invalid", Valid: All(NotBlank(), MinLength(MinTitleLength))},
	{Field: FieldContent, Message: "Content is invalid", Valid: All(NotBlank(), MinLength(MinContentLength))},
}

// StatusRules はユーザーステータス更新時のルール。
var StatusRules = []Rule{
	{Field: FieldStatus, Message: "Status is invalid", Valid: NotBlank()},
}

// CheckSignup はユーザー登録の入力を検証する。
func CheckSignup(email, password string) error {
	return Check(Fields{FieldEmail: email, FieldPassword: password}, SignupRules)
}

// CheckPost は投稿の入力を検証する。
func CheckPost(title, content string) error {
	return Check(Fields{FieldTitle: title, FieldContent: content}, PostRules)
}

// CheckStatus はステータスの入力を検証する。
func CheckStatus(status string) error {
	return Check(Fields{FieldStatus: status}, StatusRules)
}
