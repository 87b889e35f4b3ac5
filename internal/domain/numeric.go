package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric принимает из JSON число, числовую строку или bool.
// Любое другое значение превращается в 0, ошибка декодирования не возвращается.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	*n = Numeric(coerce(data))
	return nil
}

func (n Numeric) Float() float64 {
	return float64(n)
}

// Int отбрасывает дробную часть. Значение вне диапазона int32 считается нечисловым и дает 0.
func (n Numeric) Int() int {
	f := math.Trunc(float64(n))
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// ID приводит значение к идентификатору записи; отрицательные, дробные
// и не помещающиеся в bigint значения дают 0.
func (n Numeric) ID() uint {
	f := float64(n)
	if f <= 0 || f != math.Trunc(f) || f >= maxID {
		return 0
	}
	return uint(f)
}

// maxID 2^63, первое значение за пределами bigint
const maxID = float64(1 << 63)

func coerce(data []byte) float64 {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0
	}

	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
