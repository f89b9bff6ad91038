package util

import (
	"database/sql"
	"strings"
)

// StringToNullString converts a string to sql.NullString.
// An empty string is treated as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// BoolToNumber maps a bool to the 0/1 NUMBER(1) columns Oracle uses for flags.
func BoolToNumber(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IsUniqueViolation reports whether err is an Oracle unique constraint error (ORA-00001).
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}
