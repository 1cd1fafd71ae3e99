package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate is a GORM scope that takes a pessimistic row lock on the selected
// rows (SELECT ... FOR UPDATE). MySQL and SQLite both accept the clause;
// SQLite ignores it, which is fine for single-connection test databases.
//
// Correctness of webhook idempotency depends on this being a database lock,
// not an in-process mutex: duplicate deliveries may land on different
// service instances.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// NotDeleted is a GORM scope that filters out soft-deleted records.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}
