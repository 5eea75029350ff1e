// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/eventman/internal/model"
)

// EventFilter はイベント一覧取得の絞り込み条件。
// DeletedAtが設定された行は常に除外される。
type EventFilter struct {
	// DeviceID が非nilの場合、そのデバイスのイベントのみに絞り込む。
	DeviceID *int64

	// NearestOnly がtrueの場合、各イベントについて開始日時が最小の
	// 生存中開催日程1件のみを取得する（新着順ソート用）。
	// falseの場合は生存中の全開催日程を開始日時昇順で取得する。
	NearestOnly bool
}

// EventRepository はイベントデータの永続化インターフェース。
type EventRepository interface {
	// ListWithOccurrences は条件に一致する生存中イベントを、生存中の開催日程を
	// ネストした形で取得する。開催日程は開始日時昇順、イベントは作成日時降順で返す。
	// 開催日程を1件も持たないイベントも返す（除外は呼び出し側の責務）。
	ListWithOccurrences(ctx context.Context, filter EventFilter) ([]model.EventWithOccurrences, error)

	// FindByID は指定IDの生存中イベントを生存中の開催日程付きで取得する。
	// イベントが存在しないかソフトデリート済みの場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.EventWithOccurrences, error)

	// Create はイベントと開催日程、主催者の参加レコードを同一トランザクションで作成する。
	// 採番されたIDをev・occsに書き戻す。
	Create(ctx context.Context, ev *model.Event, occs []model.Occurrence, organizerID int64) error
}

// ParticipantRepository は参加データの永続化インターフェース。
type ParticipantRepository interface {
	// ListByUser はユーザーの生存中参加レコードを、参加先イベントと
	// その生存中開催日程付きで取得する。statusが非nilの場合は状態で絞り込む。
	// 参加レコードは申請日時降順、開催日程は開始日時昇順で返す。
	// 参加先イベントがソフトデリート済みの行も返すことがある（除外は呼び出し側の責務）。
	ListByUser(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipantWithEvent, error)
}

// DeviceRepository はデバイスデータの永続化インターフェース。
type DeviceRepository interface {
	// List は生存中の全デバイスをID昇順で取得する。
	List(ctx context.Context) ([]model.Device, error)

	// FindByID は指定IDの生存中デバイスを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Device, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByNickname はニックネームでユーザーを検索する。見つからない場合はnilを返す。
	FindByNickname(ctx context.Context, nickname string) (*model.User, error)

	// Update はユーザー情報を更新する。
	Update(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
}
