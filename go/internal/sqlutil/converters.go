package sqlutil

import (
	"database/sql"
	"time"
)

// Helper functions for converting between Go types and nullable columns

// FromNullTime converts sql.NullTime to a Go time pointer
func FromNullTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	t := val.Time.UTC()
	return &t
}

// ToUnixMilli stores a time as UTC epoch milliseconds
func ToUnixMilli(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromUnixMilli reads UTC epoch milliseconds
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromNullUnixMilli converts a nullable epoch milliseconds column to a Go time pointer
func FromNullUnixMilli(val sql.NullInt64) *time.Time {
	if !val.Valid {
		return nil
	}
	t := FromUnixMilli(val.Int64)
	return &t
}
