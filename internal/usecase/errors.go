package usecase

import "errors"

var (
	// ErrNotFound запись с указанным id отсутствует
	ErrNotFound = errors.New("record not found")
	// ErrClientUnavailable клиент продажи не найден или неактивен
	ErrClientUnavailable = errors.New("client not found or inactive")
)

// ValidationError ошибка входных данных, текст отдается клиенту как есть.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

var errTotalOutOfRange = &ValidationError{
	Field:  "totalValue",
	Detail: "O valor total da venda excede o limite permitido.",
}
