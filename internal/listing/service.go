package listing

import (
	"context"
	"time"

	"github.com/hitoshi/eventman/internal/model"
	"github.com/hitoshi/eventman/internal/repository"
)

// MetricsRecorder は一覧取得のメトリクス収集インターフェース。
// internal/metricsのCollectorが実装する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordListing(sort string, rankedTotal int, duration time.Duration)
	RecordValidationFailure(fieldCount int)
}

// Service はイベント一覧取得のサービス層（一覧エンジン）。
// 状態を持たず、リクエストごとに独立してストアへの1回の読み取りと
// メモリ内の変換のみを行う。
type Service struct {
	eventRepo repository.EventRepository
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil許容。
func NewService(eventRepo repository.EventRepository, metrics MetricsRecorder) *Service {
	return &Service{
		eventRepo: eventRepo,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithNow は現在時刻の取得関数を差し替えたServiceを返す。テスト用。
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Result はFindEventsの戻り値。
// Totalはページネーション適用前のランキング済み全件数。
type Result struct {
	Items []model.EventOccurrence
	Total int
}

// FindEvents はイベント一覧をランキング・ページネーション付きで返す。
//
// 処理の流れ:
//  1. クエリのバリデーション（全フィールドの違反を収集してValidationErrorで返す）
//  2. ストアから候補イベント + 生存中開催日程を取得（デバイス絞り込み、
//     新着順は各イベント最短1件のみ）
//  3. ソート種別に応じたランキング戦略を適用
//  4. ページネーション
//
// ストア障害はそのまま呼び出し元へ伝播する。空の成功結果で障害を隠すことはない。
func (s *Service) FindEvents(ctx context.Context, q model.ListingQuery) (*Result, error) {
	if err := validateQuery(q); err != nil {
		if s.metrics != nil {
			if verr, ok := err.(*model.ValidationError); ok {
				s.metrics.RecordValidationFailure(len(verr.Errors))
			}
		}
		return nil, err
	}

	filter := repository.EventFilter{
		DeviceID:    q.DeviceID,
		NearestOnly: q.Sort == model.SortModeNewest,
	}

	events, err := s.eventRepo.ListWithOccurrences(ctx, filter)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var ranked []model.EventOccurrence
	switch q.Sort {
	case model.SortModeUpcoming:
		ranked = rankUpcoming(events, s.now())
	default:
		ranked = rankNewest(events)
	}

	items, total := paginate(ranked, q.Offset, q.Limit)

	if s.metrics != nil {
		s.metrics.RecordListing(string(q.Sort), total, time.Since(start))
	}

	return &Result{Items: items, Total: total}, nil
}

// FindEventByID はイベント詳細を最初の開催日程付きで返す。
// イベントが存在しない場合と、生存中の開催日程が1件もない場合は
// どちらもEVENT_NOT_FOUNDを返す（開催日程なしのイベントを露出させない）。
func (s *Service) FindEventByID(ctx context.Context, id int64) (*model.EventOccurrence, error) {
	ew, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ew == nil || len(ew.Occurrences) == 0 {
		return nil, model.NewEventNotFoundError(id)
	}

	return &model.EventOccurrence{
		Event:      ew.Event,
		Occurrence: ew.Occurrences[0],
	}, nil
}
