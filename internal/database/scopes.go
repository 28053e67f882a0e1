package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/teamdesk-api/internal/utils"
)

// Paginate restricts a query to the requested page window.
func Paginate(query utils.PageQuery) func(db *gorm.DB) *gorm.DB {
	query = query.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(query.Offset()).Limit(query.Limit)
	}
}

// NewestFirst orders rows by creation time, most recent first.
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}
