// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
type User struct {
	ID             int64
	Nickname       string
	Description    string
	Email          string
	AvatarImageURL string
	PasswordHash   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// セッションの発行（ログインフロー）は本サービスの対象外で、外部で払い出される。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
