package listing

import (
	"net/url"
	"strconv"

	"github.com/hitoshi/eventman/internal/model"
)

// バリデーションメッセージ。フィールドごとに1種類で、
// 数値としてパースできない入力も範囲外の入力と同じ違反として報告する。
const (
	msgInvalidDeviceID = "device_idは正の整数である必要があります"
	msgInvalidLimit    = "limitは1から100の間である必要があります"
	msgInvalidOffset   = "offsetは0以上である必要があります"
	msgInvalidSort     = `sortは"newest"または"upcoming"である必要があります`
)

// ParseQuery はURLクエリパラメータからListingQueryを構築する。
// 省略されたパラメータにはデフォルト値（limit=20, offset=0, sort=newest）を適用し、
// 全パラメータの違反を収集したValidationErrorを一度に返す。
func ParseQuery(values url.Values) (model.ListingQuery, error) {
	q := model.NewListingQuery()
	verr := &model.ValidationError{}

	if raw := values.Get("device_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			verr.Add("device_id", msgInvalidDeviceID)
		} else {
			q.DeviceID = &id
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > model.MaxListingLimit {
			verr.Add("limit", msgInvalidLimit)
		} else {
			q.Limit = limit
		}
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			verr.Add("offset", msgInvalidOffset)
		} else {
			q.Offset = offset
		}
	}

	if raw := values.Get("sort"); raw != "" {
		sort := model.SortMode(raw)
		if sort != model.SortModeNewest && sort != model.SortModeUpcoming {
			verr.Add("sort", msgInvalidSort)
		} else {
			q.Sort = sort
		}
	}

	if verr.HasErrors() {
		return q, verr
	}
	return q, nil
}

// validateQuery は型付きのListingQueryを検証する。
// HTTP以外の呼び出し元が直接構築したクエリに対する契約チェックで、
// 違反はすべて収集して一度に報告する。
func validateQuery(q model.ListingQuery) error {
	verr := &model.ValidationError{}

	if q.DeviceID != nil && *q.DeviceID < 1 {
		verr.Add("device_id", msgInvalidDeviceID)
	}
	if q.Limit < 1 || q.Limit > model.MaxListingLimit {
		verr.Add("limit", msgInvalidLimit)
	}
	if q.Offset < 0 {
		verr.Add("offset", msgInvalidOffset)
	}
	if q.Sort != model.SortModeNewest && q.Sort != model.SortModeUpcoming {
		verr.Add("sort", msgInvalidSort)
	}

	return verr.ErrOrNil()
}
