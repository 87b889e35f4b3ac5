package domain

import "errors"

// ErrEmailTaken возвращается хранилищем при нарушении уникальности email.
var ErrEmailTaken = errors.New("email already registered")
