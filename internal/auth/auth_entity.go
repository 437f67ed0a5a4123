package auth

import "time"

type User struct {
	ID        int64  `gorm:"primaryKey"`
	FullName  string
	Email     string `gorm:"uniqueIndex"`
	Password  string // bcrypt hash
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
