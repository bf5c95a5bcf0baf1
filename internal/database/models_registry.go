package database

import "github.com/SAITARUN432/backendblog/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []any {
	return []any{
		&models.Blog{},
		&models.User{},
	}
}
