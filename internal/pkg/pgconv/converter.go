package pgconv

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// TextOrEmpty reads a nullable text column, mapping NULL to "".
func TextOrEmpty(pt pgtype.Text) string {
	if !pt.Valid {
		return ""
	}
	return pt.String
}

// NullableText stores "" as NULL.
func NullableText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func Int64OrZero(pi pgtype.Int8) int64 {
	if !pi.Valid {
		return 0
	}
	return pi.Int64
}

func NullableInt64(v int64, valid bool) pgtype.Int8 {
	return pgtype.Int8{Int64: v, Valid: valid}
}
