// Package handler はHTTPエンドポイントのハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/eventman/internal/model"
)

// apiResponse はAPIレスポンスの統一エンベロープ。
// 成功時は {statusCode, data}、エラー時は {statusCode, message, errors?} を返す。
type apiResponse struct {
	StatusCode int                  `json:"statusCode"`
	Message    string               `json:"message,omitempty"`
	Data       any                  `json:"data,omitempty"`
	Errors     []fieldErrorResponse `json:"errors,omitempty"`
}

// fieldErrorResponse は1フィールドのバリデーション違反のレスポンス。
type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeSuccessResponse は成功レスポンスをエンベロープ形式で書き込む。
func writeSuccessResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiResponse{
		StatusCode: statusCode,
		Data:       data,
	})
}

// writeErrorResponse はエラーレスポンスをエンベロープ形式で書き込む。
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiResponse{
		StatusCode: statusCode,
		Message:    message,
	})
}

// writeValidationErrorResponse はバリデーション違反を全フィールド分まとめて返す。
func writeValidationErrorResponse(w http.ResponseWriter, verr *model.ValidationError) {
	fields := make([]fieldErrorResponse, len(verr.Errors))
	for i, fe := range verr.Errors {
		fields[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(apiResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "リクエストパラメータが不正です",
		Errors:     fields,
	})
}

// writeUnauthorizedResponse は認証エラーレスポンスを書き込む。
func writeUnauthorizedResponse(w http.ResponseWriter) {
	writeErrorResponse(w, http.StatusUnauthorized, "ログインが必要です")
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPレスポンスに変換する。
// ValidationErrorはフィールド一覧付きの400、APIErrorはコードに応じたステータス、
// それ以外はログに記録したうえで一般的な500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeValidationErrorResponse(w, verr)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeErrorResponse(w, http.StatusInternalServerError, "サーバー内部エラーが発生しました")
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeEventNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeDeviceNotFound:
		return http.StatusBadRequest
	case model.ErrCodeNicknameTaken:
		return http.StatusConflict
	case model.ErrCodeImageURLBlocked:
		return http.StatusForbidden
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
