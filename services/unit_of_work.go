package services

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs one operation inside one database transaction. The
// transaction commits when fn returns nil and rolls back on error or panic.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}

// DB is the non-transactional handle for read-only queries.
func (u *UnitOfWork) DB(ctx context.Context) *gorm.DB {
	return u.db.WithContext(ctx)
}
