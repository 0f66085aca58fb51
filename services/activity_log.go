package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/resto-pos/models"
	"gorm.io/gorm"
)

type actorKey struct{}

// WithActor marks ctx with the staff member performing the request, so the
// activity log can attribute the change.
func WithActor(ctx context.Context, staffID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, staffID)
}

func actorFrom(ctx context.Context) *uint {
	if ctx == nil {
		return nil
	}
	id, ok := ctx.Value(actorKey{}).(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// ActivityLogger mencatat setiap perubahan data yang berhasil.
type ActivityLogger struct {
	uow *UnitOfWork
}

func NewActivityLogger(uow *UnitOfWork) *ActivityLogger {
	return &ActivityLogger{uow: uow}
}

// Record writes the entry on tx, so it commits or rolls back together with
// the change it describes.
func (a *ActivityLogger) Record(tx *gorm.DB, action, entity string, entityID uint, format string, args ...any) error {
	entry := models.ActivityLog{
		StaffID:  actorFrom(tx.Statement.Context),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   fmt.Sprintf(format, args...),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("record activity %s: %w", action, err)
	}
	return nil
}

// List returns the newest entries first. limit <= 0 means 50.
func (a *ActivityLogger) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.ActivityLog
	err := a.uow.DB(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
