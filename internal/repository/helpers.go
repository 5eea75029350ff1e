package repository

import (
	"database/sql"
	"time"
)

// nullString は空文字列をNULLとして保存するためのsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullStringValue はsql.NullStringから値を取り出す。NULLの場合は空文字列を返す。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// timePtr はsql.NullTimeから*time.Timeを取り出す。NULLの場合はnilを返す。
func timePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// intPtr はsql.NullInt64から*intを取り出す。NULLの場合はnilを返す。
func intPtr(ni sql.NullInt64) *int {
	if ni.Valid {
		v := int(ni.Int64)
		return &v
	}
	return nil
}
