package repository

import (
	"testing"
)

// TestPostgresUserRepo_ImplementsInterface はPostgresUserRepoがUserRepositoryを実装することを検証する。
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	// コンパイル時チェック：PostgresUserRepoがUserRepositoryを満たすことを検証
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// TestPostgresDeviceRepo_ImplementsInterface はPostgresDeviceRepoがDeviceRepositoryを実装することを検証する。
func TestPostgresDeviceRepo_ImplementsInterface(t *testing.T) {
	// コンパイル時チェック：PostgresDeviceRepoがDeviceRepositoryを満たすことを検証
	var _ DeviceRepository = (*PostgresDeviceRepo)(nil)
}

// TestPostgresSessionRepo_ImplementsInterface はPostgresSessionRepoがSessionRepositoryを実装することを検証する。
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	// コンパイル時チェック：PostgresSessionRepoがSessionRepositoryを満たすことを検証
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}
