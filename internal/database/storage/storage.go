// Package storage реализует порты хранилища поверх sqlx и squirrel
// (STORAGE_DRIVER=sqlx). Схема таблиц та же, что создает GORM или миграции.
package storage

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
