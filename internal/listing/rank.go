// Package listing はイベント一覧のランキング・ページネーションエンジンを提供する。
//
// ストアから取得した正規化済みのイベント集合（イベント + 生存中の開催日程）を、
// 2種類のソート戦略で並べ替えたフラットな(イベント, 開催日程)列に変換する。
// 戦略は純粋関数として実装し、現在時刻は常に引数で注入する。
package listing

import (
	"sort"
	"time"

	"github.com/hitoshi/eventman/internal/model"
)

// isFuture は開催日程が基準時刻以降に開始するかどうかを返す。
// 開始時刻が基準時刻と一致する場合も未来として扱う。
func isFuture(occ model.Occurrence, now time.Time) bool {
	return !occ.StartDate.Before(now)
}

// expandOccurrences はイベントを開催日程ごとの(イベント, 開催日程)タプルに展開する。
// 開催日程を持たないイベントは1件も生成しない（エラーではなく単に除外）。
func expandOccurrences(ew model.EventWithOccurrences) []model.EventOccurrence {
	tuples := make([]model.EventOccurrence, 0, len(ew.Occurrences))
	for _, occ := range ew.Occurrences {
		tuples = append(tuples, model.EventOccurrence{Event: ew.Event, Occurrence: occ})
	}
	return tuples
}

// rankUpcoming は「直近開催順」のランキングを生成する。
//
// 全イベントの全開催日程を展開し、基準時刻より前に開始するものを除外した上で、
// 開始日時の昇順に並べる。同時刻はイベントIDの昇順で安定化する。
// 複数の未来開催日程を持つイベントは複数回出現する。
func rankUpcoming(events []model.EventWithOccurrences, now time.Time) []model.EventOccurrence {
	var ranked []model.EventOccurrence
	for _, ew := range events {
		for _, tuple := range expandOccurrences(ew) {
			if isFuture(tuple.Occurrence, now) {
				ranked = append(ranked, tuple)
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.Occurrence.StartDate.Equal(b.Occurrence.StartDate) {
			return a.Occurrence.StartDate.Before(b.Occurrence.StartDate)
		}
		return a.Event.ID < b.Event.ID
	})

	return ranked
}

// rankNewest は「新着順」のランキングを生成する。
//
// 各イベントについて開始日時が最小の開催日程1件のみを採用し、イベントの作成日時の
// 降順に並べる。同時刻はイベントIDの降順で安定化する。未来判定は行わないため、
// 開催が過去のイベントも新規公開直後であれば上位に現れる。
// 開催日程を1件も持たないイベントは除外する。各イベントは最大1回だけ出現する。
func rankNewest(events []model.EventWithOccurrences) []model.EventOccurrence {
	var ranked []model.EventOccurrence
	for _, ew := range events {
		if len(ew.Occurrences) == 0 {
			continue
		}
		// ストアは開始日時昇順で返すため先頭が最小。
		ranked = append(ranked, model.EventOccurrence{
			Event:      ew.Event,
			Occurrence: ew.Occurrences[0],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.Event.CreatedAt.Equal(b.Event.CreatedAt) {
			return a.Event.CreatedAt.After(b.Event.CreatedAt)
		}
		return a.Event.ID > b.Event.ID
	})

	return ranked
}
