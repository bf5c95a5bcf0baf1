package models

import "time"

// User is a database-backed account that can log in. Password holds a bcrypt hash.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Roles embedded in issued tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
