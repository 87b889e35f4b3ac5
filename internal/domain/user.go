// internal/domain/user.go
package domain

import "time"

// User представляет пользователя API, соответствует таблице users.
// Password хранит bcrypt-хэш и никогда не сериализуется в JSON.
type User struct {
	ID         uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name       string    `json:"name" db:"name" gorm:"not null"`
	Email      string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-" db:"password" gorm:"not null"`
	ActiveUser bool      `json:"activeUser" db:"active_user" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserInput тело запроса POST /api/users.
type UserInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,max=72"`
	ActiveUser *bool  `json:"activeUser"`
}

// UserPatch частичное обновление, nil означает "поле не передано".
type UserPatch struct {
	Name       *string `json:"name" validate:"omitnil,min=1"`
	Email      *string `json:"email" validate:"omitnil,email"`
	Password   *string `json:"password" validate:"omitnil,min=1,max=72"`
	ActiveUser *bool   `json:"activeUser"`
}

// UserFilter параметры выборки для списка пользователей.
type UserFilter struct {
	Name   string
	Email  string
	Active *bool
}
