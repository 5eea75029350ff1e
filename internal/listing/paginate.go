package listing

import "github.com/hitoshi/eventman/internal/model"

// paginate はランキング済みの列にoffset/limitを適用する。
// totalはスライス前の全件数を返す。ストアの生の行数ではない点に注意。
// offsetが列の長さを超える場合は空のitemsと正しいtotalを返す（エラーにしない）。
func paginate(ranked []model.EventOccurrence, offset, limit int) (items []model.EventOccurrence, total int) {
	total = len(ranked)

	if offset >= total {
		return []model.EventOccurrence{}, total
	}

	end := offset + limit
	if end > total {
		end = total
	}
	return ranked[offset:end], total
}
