package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isForeignKeyError 判断是否为外键约束错误
// - MySQL 1452: Cannot add or update a child row: a foreign key constraint fails
// - SQLite: FOREIGN KEY constraint failed
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "foreign key constraint fails") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
