package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/postboard/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// dataは入力検証エラーの場合のみ値を持ち、それ以外はnullになる。
type ErrorResponseBody struct {
	Message    string             `json:"message"`
	StatusCode int                `json:"statusCode"`
	Data       []model.FieldError `json:"data"`
}

// NormalizeError は任意のエラーをエラーレスポンスに変換する。
// DomainErrorはそのまま、それ以外は詳細を含まない500として扱う。
func NormalizeError(err error) ErrorResponseBody {
	if de, ok := model.AsDomainError(err); ok && de.StatusCode > 0 {
		return ErrorResponseBody{
			Message:    de.Message,
			StatusCode: de.StatusCode,
			Data:       de.Data,
		}
	}
	internal := model.NewInternalError()
	return ErrorResponseBody{
		Message:    internal.Message,
		StatusCode: internal.StatusCode,
	}
}

// WriteError はエラーを統一フォーマットで書き込む。
// クライアント向けのエラーボディはすべてこの関数を経由して生成する。
// DomainError以外のエラーは詳細をログにのみ記録する。
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	body := NormalizeError(err)
	if _, ok := model.AsDomainError(err); !ok && err != nil {
		attrs := []any{slog.String("error", err.Error())}
		if r != nil {
			attrs = append(attrs, slog.String("method", r.Method), slog.String("path", r.URL.Path))
		}
		slog.Error("unhandled error", attrs...)
	}
	writeErrorBody(w, body)
}

func writeErrorBody(w http.ResponseWriter, body ErrorResponseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	json.NewEncoder(w).Encode(body)
}
