package listing

import (
	"testing"
	"time"

	"github.com/hitoshi/eventman/internal/model"
)

func makeRanked(n int) []model.EventOccurrence {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ranked := make([]model.EventOccurrence, n)
	for i := 0; i < n; i++ {
		ranked[i] = model.EventOccurrence{
			Event:      model.Event{ID: int64(i + 1)},
			Occurrence: model.Occurrence{ID: int64(100 + i), StartDate: base.Add(time.Duration(i) * time.Hour)},
		}
	}
	return ranked
}

// totalが常にスライス前の全件数を反映することを検証
func TestPaginate_TotalReflectsFullSequence(t *testing.T) {
	ranked := makeRanked(5)

	items, total := paginate(ranked, 0, 2)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Errorf("items count = %d, want 2", len(items))
	}
}

// offset/limitで正しい範囲が切り出されることを検証
func TestPaginate_SlicesByOffsetAndLimit(t *testing.T) {
	ranked := makeRanked(5)

	items, total := paginate(ranked, 2, 2)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Fatalf("items count = %d, want 2", len(items))
	}
	if items[0].Event.ID != 3 || items[1].Event.ID != 4 {
		t.Errorf("item event IDs = [%d, %d], want [3, 4]", items[0].Event.ID, items[1].Event.ID)
	}
}

// 末尾ページでlimit未満の件数が返ることを検証
func TestPaginate_PartialLastPage(t *testing.T) {
	ranked := makeRanked(5)

	items, total := paginate(ranked, 4, 20)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 1 {
		t.Fatalf("items count = %d, want 1", len(items))
	}
	if items[0].Event.ID != 5 {
		t.Errorf("items[0].Event.ID = %d, want 5", items[0].Event.ID)
	}
}

// 範囲外のoffsetは空のitemsと正しいtotalを返すことを検証（エラーにしない）
func TestPaginate_OffsetBeyondLength(t *testing.T) {
	ranked := makeRanked(3)

	items, total := paginate(ranked, 10, 20)
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 0 {
		t.Errorf("items count = %d, want 0", len(items))
	}
	if items == nil {
		t.Error("items should be an empty slice, not nil")
	}
}

// 空の列に対しても正常に動作することを検証
func TestPaginate_EmptySequence(t *testing.T) {
	items, total := paginate(nil, 0, 20)
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if len(items) != 0 {
		t.Errorf("items count = %d, want 0", len(items))
	}
}
