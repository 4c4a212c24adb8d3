package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation also inspects the message because raw Exec paths bypass
// gorm's error translation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
