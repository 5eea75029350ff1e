package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/eventman/internal/model"
)

// PostgresDeviceRepo はPostgreSQLを使用したデバイスリポジトリ。
type PostgresDeviceRepo struct {
	db *sql.DB
}

// NewPostgresDeviceRepo はPostgresDeviceRepoを生成する。
func NewPostgresDeviceRepo(db *sql.DB) *PostgresDeviceRepo {
	return &PostgresDeviceRepo{db: db}
}

// List は生存中の全デバイスをID昇順で取得する。
func (r *PostgresDeviceRepo) List(ctx context.Context) ([]model.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at, deleted_at
		 FROM devices
		 WHERE deleted_at IS NULL
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("デバイス一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		var d model.Device
		var deletedAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("デバイス行の読み取りに失敗しました: %w", err)
		}
		d.DeletedAt = timePtr(deletedAt)
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("デバイス一覧の走査に失敗しました: %w", err)
	}

	return devices, nil
}

// FindByID は指定IDの生存中デバイスを取得する。見つからない場合はnilを返す。
func (r *PostgresDeviceRepo) FindByID(ctx context.Context, id int64) (*model.Device, error) {
	var d model.Device
	var deletedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at, deleted_at
		 FROM devices
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt, &deletedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("デバイスの取得に失敗しました: %w", err)
	}

	d.DeletedAt = timePtr(deletedAt)
	return &d, nil
}

// compile-time interface check
var _ DeviceRepository = (*PostgresDeviceRepo)(nil)
