package repository

import (
	"errors"

	"github.com/lib/pq"
)

// isUniqueViolation проверяет, является ли ошибка нарушением
// уникального ограничения PostgreSQL.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
