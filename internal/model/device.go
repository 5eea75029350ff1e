// Package model はドメインモデルを定義する。
package model

import "time"

// Device はイベントの開催対象となるプラットフォーム（デバイス）を表す。
// 管理者が保守する参照データで、サービス本体からは読み取り専用。
type Device struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
