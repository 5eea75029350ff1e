// Package participation はユーザーの参加イベント一覧機能を提供する。
package participation

import (
	"context"
	"fmt"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/repository"
)

// Service は参加イベント一覧のサービス層。
// 参加レコードをイベント・開催日程と結合し、開催日程ごとに展開した
// フラットな列を生成する。
type Service struct {
	participantRepo repository.ParticipantRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(participantRepo repository.ParticipantRepository) *Service {
	return &Service{participantRepo: participantRepo}
}

// validStatuses は絞り込みに指定できる参加状態のセット。
var validStatuses = map[model.ParticipantStatus]bool{
	model.ParticipantStatusPending:  true,
	model.ParticipantStatusApproved: true,
	model.ParticipantStatusRejected: true,
}

// ParseStatus はクエリパラメータの参加状態文字列を検証してパースする。
// 空文字列は絞り込みなし（nil）を意味する。
func ParseStatus(raw string) (*model.ParticipantStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := model.ParticipantStatus(raw)
	if !validStatuses[status] {
		verr := &model.ValidationError{}
		verr.Add("status", `statusは"pending"、"approved"、"rejected"のいずれかである必要があります`)
		return nil, verr
	}
	return &status, nil
}

// FindEventsByUser はユーザーが参加しているイベント一覧を開催日程ごとに展開して返す。
//
// 並び順は参加申請日時の降順（直近に参加したものが先頭）。同一イベント内の
// 開催日程はストアが返す開始日時昇順をそのまま保つ。3件の開催日程を持つ
// イベントへの参加は3行に展開される。
//
// 参加先イベントがソフトデリート済みの行はここで除外する。ストア側のJOINは
// 安全側に倒して削除済みイベントの行も返すことがあるため、防御的に判定する。
// 開催日程を1件も持たないイベントは行を生成しない。
func (s *Service) FindEventsByUser(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipationEntry, error) {
	participants, err := s.participantRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("参加イベント一覧の取得に失敗しました: %w", err)
	}

	entries := []model.ParticipationEntry{}
	for _, p := range participants {
		if p.Event.IsDeleted() {
			continue
		}
		for _, occ := range p.Occurrences {
			entries = append(entries, model.ParticipationEntry{
				Event:      p.Event,
				Occurrence: occ,
				Status:     p.Participant.Status,
				Role:       p.Participant.Role,
				AppliedAt:  p.Participant.AppliedAt,
			})
		}
	}

	return entries, nil
}
