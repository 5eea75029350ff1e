package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/eventman/internal/model"
)

// PostgresEventRepo はPostgreSQLを使用したイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

// eventColumns はイベント取得クエリのSELECT句。devicesをJOINしてデバイス名も取得する。
const eventColumns = `
	e.id, e.title, e.description, e.device_id, d.name,
	e.max_participants_num, e.main_image_url, e.deadline,
	e.created_at, e.updated_at, e.deleted_at`

// scanEvent は1行分のイベントを読み取る。
func scanEvent(scan func(dest ...interface{}) error) (model.Event, error) {
	var ev model.Event
	var description sql.NullString
	var maxParticipants sql.NullInt64
	var deadline, deletedAt sql.NullTime

	err := scan(
		&ev.ID, &ev.Title, &description, &ev.DeviceID, &ev.DeviceName,
		&maxParticipants, &ev.MainImageURL, &deadline,
		&ev.CreatedAt, &ev.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return model.Event{}, err
	}

	ev.Description = nullStringValue(description)
	ev.MaxParticipants = intPtr(maxParticipants)
	ev.Deadline = timePtr(deadline)
	ev.DeletedAt = timePtr(deletedAt)
	return ev, nil
}

// ListWithOccurrences は条件に一致する生存中イベントを生存中の開催日程付きで取得する。
// イベントは作成日時降順（同時刻はID降順）、開催日程は開始日時昇順で返す。
// NearestOnlyの場合はイベントごとに開始日時が最小の開催日程1件のみを取得する。
func (r *PostgresEventRepo) ListWithOccurrences(ctx context.Context, filter EventFilter) ([]model.EventWithOccurrences, error) {
	query := `SELECT ` + eventColumns + `
		 FROM events e
		 JOIN devices d ON d.id = e.device_id
		 WHERE e.deleted_at IS NULL`

	args := []interface{}{}
	if filter.DeviceID != nil {
		query += fmt.Sprintf(" AND e.device_id = $%d", len(args)+1)
		args = append(args, *filter.DeviceID)
	}
	query += " ORDER BY e.created_at DESC, e.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []model.EventWithOccurrences
	var eventIDs []int64
	indexByID := make(map[int64]int)

	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("イベント行の読み取りに失敗しました: %w", err)
		}
		indexByID[ev.ID] = len(results)
		results = append(results, model.EventWithOccurrences{Event: ev})
		eventIDs = append(eventIDs, ev.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("イベント一覧の走査に失敗しました: %w", err)
	}

	if len(eventIDs) == 0 {
		return results, nil
	}

	occs, err := r.listOccurrences(ctx, eventIDs, filter.NearestOnly)
	if err != nil {
		return nil, err
	}
	for _, occ := range occs {
		i := indexByID[occ.EventID]
		results[i].Occurrences = append(results[i].Occurrences, occ)
	}

	return results, nil
}

// listOccurrences は指定イベント群の生存中開催日程を開始日時昇順で取得する。
// nearestOnlyの場合はDISTINCT ONでイベントごとに先頭の1件のみを取得する。
func (r *PostgresEventRepo) listOccurrences(ctx context.Context, eventIDs []int64, nearestOnly bool) ([]model.Occurrence, error) {
	query := `SELECT id, event_id, start_date, end_date
		 FROM event_dates
		 WHERE event_id = ANY($1) AND deleted_at IS NULL
		 ORDER BY start_date ASC, id ASC`
	if nearestOnly {
		query = `SELECT DISTINCT ON (event_id) id, event_id, start_date, end_date
		 FROM event_dates
		 WHERE event_id = ANY($1) AND deleted_at IS NULL
		 ORDER BY event_id, start_date ASC, id ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("開催日程の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var occs []model.Occurrence
	for rows.Next() {
		var occ model.Occurrence
		if err := rows.Scan(&occ.ID, &occ.EventID, &occ.StartDate, &occ.EndDate); err != nil {
			return nil, fmt.Errorf("開催日程行の読み取りに失敗しました: %w", err)
		}
		occs = append(occs, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("開催日程の走査に失敗しました: %w", err)
	}

	return occs, nil
}

// FindByID は指定IDの生存中イベントを生存中の開催日程付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresEventRepo) FindByID(ctx context.Context, id int64) (*model.EventWithOccurrences, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN devices d ON d.id = e.device_id
		 WHERE e.id = $1 AND e.deleted_at IS NULL`,
		id,
	)

	ev, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}

	occs, err := r.listOccurrences(ctx, []int64{ev.ID}, false)
	if err != nil {
		return nil, err
	}

	return &model.EventWithOccurrences{Event: ev, Occurrences: occs}, nil
}

// Create はイベント・開催日程・主催者の参加レコードを同一トランザクションで作成する。
// 採番されたIDをev・occsに書き戻す。
func (r *PostgresEventRepo) Create(ctx context.Context, ev *model.Event, occs []model.Occurrence, organizerID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO events (title, description, device_id, max_participants_num,
		                     main_image_url, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		 RETURNING id, created_at, updated_at`,
		ev.Title, nullString(ev.Description), ev.DeviceID,
		nullableInt(ev.MaxParticipants), ev.MainImageURL, nullableTime(ev.Deadline),
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("イベントの作成に失敗しました: %w", err)
	}

	for i := range occs {
		occs[i].EventID = ev.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO event_dates (event_id, start_date, end_date)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			ev.ID, occs[i].StartDate, occs[i].EndDate,
		).Scan(&occs[i].ID)
		if err != nil {
			return fmt.Errorf("開催日程の作成に失敗しました: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_participants (event_id, user_id, status, role, applied_at)
		 VALUES ($1, $2, $3, $4, now())`,
		ev.ID, organizerID, model.ParticipantStatusApproved, model.ParticipantRoleOrganizer,
	)
	if err != nil {
		return fmt.Errorf("主催者の参加レコード作成に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// nullableInt は*intをsql.NullInt64に変換する。
func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// nullableTime は*time.Timeをsql.NullTimeに変換する。
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// compile-time interface check
var _ EventRepository = (*PostgresEventRepo)(nil)
