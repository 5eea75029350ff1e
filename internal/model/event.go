// Package model はドメインモデルを定義する。
package model

import "time"

// Event は開催イベントを表す。
// 物理削除は行わず、DeletedAtを設定するソフトデリートで管理する。
type Event struct {
	ID              int64
	Title           string
	Description     string // サニタイズ済みテキスト
	DeviceID        int64
	DeviceName      string
	MaxParticipants *int
	MainImageURL    string
	Deadline        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// IsDeleted はイベントがソフトデリート済みかどうかを返す。
func (e *Event) IsDeleted() bool {
	return e.DeletedAt != nil
}

// Occurrence はイベントの開催日程（開始〜終了の時間帯）を表す。
// 1つのイベントは0個以上のOccurrenceを持ち、それぞれ独立してソフトデリートできる。
type Occurrence struct {
	ID        int64
	EventID   int64
	StartDate time.Time
	EndDate   time.Time
	DeletedAt *time.Time
}

// EventWithOccurrences はイベントとその生存中（未削除）の開催日程の組。
// ストアから取得される形で、開催日程は開始日時の昇順に並んでいる。
type EventWithOccurrences struct {
	Event       Event
	Occurrences []Occurrence
}

// EventOccurrence はランキング戦略が生成する(イベント, 開催日程)のタプル。
// 永続化されない派生ビューで、1リクエストの間だけ生存する。
type EventOccurrence struct {
	Event      Event
	Occurrence Occurrence
}

// SortMode はイベント一覧のソート種別を表す。
type SortMode string

const (
	// SortModeNewest は公開が新しい順のソート。イベントごとに最大1件を返す。
	SortModeNewest SortMode = "newest"
	// SortModeUpcoming は開催が近い順のソート。未来の開催日程ごとに1件を返す。
	SortModeUpcoming SortMode = "upcoming"
)

// ListingQuery はイベント一覧取得の検索条件。リクエストごとに生成される一時データ。
type ListingQuery struct {
	DeviceID *int64
	Limit    int
	Offset   int
	Sort     SortMode
}

// DefaultListingLimit は一覧取得のデフォルト件数。
const DefaultListingLimit = 20

// MaxListingLimit は一覧取得の最大件数。
const MaxListingLimit = 100

// NewListingQuery はデフォルト値を設定したListingQueryを生成する。
func NewListingQuery() ListingQuery {
	return ListingQuery{
		Limit:  DefaultListingLimit,
		Offset: 0,
		Sort:   SortModeNewest,
	}
}
