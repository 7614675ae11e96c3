package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *InternalNotification) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*InternalNotification, error)
	// ListByUser returns the newest notifications first.
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, unreadOnly bool, limit, offset int) ([]InternalNotification, error)
	UnreadCount(ctx context.Context, db *gorm.DB, userID snowflake.ID) (int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID, readAt time.Time) error
	MarkAllRead(ctx context.Context, db *gorm.DB, userID snowflake.ID, readAt time.Time) (int64, error)
	// DeleteExpired removes notifications whose expiry has passed.
	DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
}
