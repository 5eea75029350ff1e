package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/eventman/internal/model"
)

// PostgresParticipantRepo はPostgreSQLを使用した参加リポジトリ。
type PostgresParticipantRepo struct {
	db *sql.DB
}

// NewPostgresParticipantRepo はPostgresParticipantRepoを生成する。
func NewPostgresParticipantRepo(db *sql.DB) *PostgresParticipantRepo {
	return &PostgresParticipantRepo{db: db}
}

// ListByUser はユーザーの生存中参加レコードを参加先イベント・開催日程付きで取得する。
// 参加レコードは申請日時降順（同時刻はID降順）で返す。
// イベント側のソフトデリートはここでは除外しない。JOINの安全側に倒し、
// 除外判定は呼び出し側（参加一覧サービス）で行う。
func (r *PostgresParticipantRepo) ListByUser(ctx context.Context, userID int64, status *model.ParticipantStatus) ([]model.ParticipantWithEvent, error) {
	query := `SELECT p.id, p.event_id, p.user_id, p.status, p.role, p.applied_at, p.deleted_at,
	       ` + eventColumns + `
		 FROM event_participants p
		 JOIN events e ON e.id = p.event_id
		 JOIN devices d ON d.id = e.device_id
		 WHERE p.user_id = $1 AND p.deleted_at IS NULL`

	args := []interface{}{userID}
	if status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", len(args)+1)
		args = append(args, *status)
	}
	query += " ORDER BY p.applied_at DESC, p.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("参加レコード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []model.ParticipantWithEvent
	var eventIDs []int64

	for rows.Next() {
		var p model.Participant
		var ev model.Event
		var pDeletedAt sql.NullTime
		var description sql.NullString
		var maxParticipants sql.NullInt64
		var deadline, eDeletedAt sql.NullTime

		if err := rows.Scan(
			&p.ID, &p.EventID, &p.UserID, &p.Status, &p.Role, &p.AppliedAt, &pDeletedAt,
			&ev.ID, &ev.Title, &description, &ev.DeviceID, &ev.DeviceName,
			&maxParticipants, &ev.MainImageURL, &deadline,
			&ev.CreatedAt, &ev.UpdatedAt, &eDeletedAt,
		); err != nil {
			return nil, fmt.Errorf("参加レコード行の読み取りに失敗しました: %w", err)
		}

		p.DeletedAt = timePtr(pDeletedAt)
		ev.Description = nullStringValue(description)
		ev.MaxParticipants = intPtr(maxParticipants)
		ev.Deadline = timePtr(deadline)
		ev.DeletedAt = timePtr(eDeletedAt)

		results = append(results, model.ParticipantWithEvent{Participant: p, Event: ev})
		eventIDs = append(eventIDs, ev.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("参加レコード一覧の走査に失敗しました: %w", err)
	}

	if len(eventIDs) == 0 {
		return results, nil
	}

	occsByEvent, err := r.listOccurrencesByEvent(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Occurrences = occsByEvent[results[i].Event.ID]
	}

	return results, nil
}

// listOccurrencesByEvent は指定イベント群の生存中開催日程をイベントIDごとにまとめて返す。
// 各イベント内の開催日程は開始日時昇順。
func (r *PostgresParticipantRepo) listOccurrencesByEvent(ctx context.Context, eventIDs []int64) (map[int64][]model.Occurrence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, start_date, end_date
		 FROM event_dates
		 WHERE event_id = ANY($1) AND deleted_at IS NULL
		 ORDER BY start_date ASC, id ASC`,
		pq.Array(eventIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("参加イベントの開催日程取得に失敗しました: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[int64][]model.Occurrence)
	for rows.Next() {
		var occ model.Occurrence
		if err := rows.Scan(&occ.ID, &occ.EventID, &occ.StartDate, &occ.EndDate); err != nil {
			return nil, fmt.Errorf("参加イベントの開催日程行の読み取りに失敗しました: %w", err)
		}
		byEvent[occ.EventID] = append(byEvent[occ.EventID], occ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("参加イベントの開催日程走査に失敗しました: %w", err)
	}

	return byEvent, nil
}

// compile-time interface check
var _ ParticipantRepository = (*PostgresParticipantRepo)(nil)
