package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/eventman/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, nickname, description, email, avatar_image_url, password_hash, created_at, updated_at`

// scanUser は1行分のユーザーを読み取る。
func scanUser(scan func(dest ...interface{}) error) (*model.User, error) {
	user := &model.User{}
	var description, avatarImageURL, passwordHash sql.NullString

	err := scan(
		&user.ID, &user.Nickname, &description, &user.Email,
		&avatarImageURL, &passwordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Description = nullStringValue(description)
	user.AvatarImageURL = nullStringValue(avatarImageURL)
	user.PasswordHash = nullStringValue(passwordHash)
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return user, nil
}

// FindByNickname はニックネームでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)

	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ニックネームによるユーザーの検索に失敗しました: %w", err)
	}
	return user, nil
}

// Update はユーザー情報を更新する。
func (r *PostgresUserRepo) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		    nickname = $2, description = $3, email = $4,
		    avatar_image_url = $5, password_hash = $6, updated_at = now()
		 WHERE id = $1`,
		user.ID, user.Nickname, nullString(user.Description), user.Email,
		nullString(user.AvatarImageURL), nullString(user.PasswordHash),
	)
	if err != nil {
		return fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
