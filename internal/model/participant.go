// Package model はドメインモデルを定義する。
package model

import "time"

// ParticipantStatus は参加申請の状態を表す。
type ParticipantStatus string

const (
	// ParticipantStatusPending は承認待ちの参加申請。
	ParticipantStatusPending ParticipantStatus = "pending"
	// ParticipantStatusApproved は承認済みの参加申請。
	ParticipantStatusApproved ParticipantStatus = "approved"
	// ParticipantStatusRejected は却下された参加申請。
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// ParticipantRole はイベント内でのユーザーの役割を表す。
type ParticipantRole string

const (
	// ParticipantRoleOrganizer はイベント主催者。
	ParticipantRoleOrganizer ParticipantRole = "organizer"
	// ParticipantRoleParticipant は一般参加者。
	ParticipantRoleParticipant ParticipantRole = "participant"
)

// Participant はユーザーとイベントの参加関係を表す。
// 特定の開催日程ではなくイベント単位で紐付く。
type Participant struct {
	ID        int64
	EventID   int64
	UserID    int64
	Status    ParticipantStatus
	Role      ParticipantRole
	AppliedAt time.Time
	DeletedAt *time.Time
}

// ParticipantWithEvent は参加レコードと参加先イベント・開催日程を結合したモデル。
// event_participantsテーブルにeventsとevent_datesをJOINして取得される。
type ParticipantWithEvent struct {
	Participant Participant
	Event       Event
	Occurrences []Occurrence
}

// ParticipationEntry はユーザーの参加イベント一覧の1行。
// 開催日程ごとに展開された(イベント, 開催日程)と参加メタデータを持つ。
type ParticipationEntry struct {
	Event      Event
	Occurrence Occurrence
	Status     ParticipantStatus
	Role       ParticipantRole
	AppliedAt  time.Time
}
