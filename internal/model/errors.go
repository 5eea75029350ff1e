// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, event, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEventNotFound   = "EVENT_NOT_FOUND"
	ErrCodeDeviceNotFound  = "DEVICE_NOT_FOUND"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeNicknameTaken   = "NICKNAME_TAKEN"
	ErrCodeImageURLBlocked = "IMAGE_URL_BLOCKED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
)

// NewEventNotFoundError はイベント未検出エラーを生成する。
// イベント自体が存在しない場合と、生存中の開催日程が1件もない場合の両方で使う。
func NewEventNotFoundError(eventID int64) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("指定されたイベントが見つかりません: %d", eventID),
		Category: "event",
		Action:   "イベントIDを確認してください。",
	}
}

// NewDeviceNotFoundError はデバイス未検出エラーを生成する。
func NewDeviceNotFoundError(deviceID int64) *APIError {
	return &APIError{
		Code:     ErrCodeDeviceNotFound,
		Message:  fmt.Sprintf("指定されたデバイスが見つかりません: %d", deviceID),
		Category: "validation",
		Action:   "デバイス一覧から有効なデバイスを選択してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewNicknameTakenError はニックネーム重複エラーを生成する。
func NewNicknameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeNicknameTaken,
		Message:  "このニックネームは既に使用されています。",
		Category: "validation",
		Action:   "別のニックネームを入力してください。",
	}
}

// NewImageURLBlockedError は画像URLがセキュリティポリシーで拒否された場合のエラーを生成する。
func NewImageURLBlockedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeImageURLBlocked,
		Message:  fmt.Sprintf("指定された画像URLは使用できません: %s", reason),
		Category: "validation",
		Action:   "公開されているhttps URLの画像を指定してください。",
	}
}

// FieldError はリクエストの1フィールドに対するバリデーション違反を表す。
type FieldError struct {
	Field   string
	Message string
}

// ValidationError は複数フィールドのバリデーション違反をまとめたエラー。
// 最初の違反で打ち切らず、全フィールドの違反を収集して一度に報告する。
type ValidationError struct {
	Errors []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("リクエストパラメータが不正です: %s", strings.Join(fields, ", "))
}

// Add はフィールド違反を追加する。
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// HasErrors は1件以上の違反が収集されているかを返す。
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil は違反があればエラーとして、なければnilを返す。
// 空のValidationErrorを非nil errorとして返してしまう事故を防ぐ。
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
