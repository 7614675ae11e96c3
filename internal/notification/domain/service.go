package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
)

type ListRequest struct {
	UserID     snowflake.ID
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Service interface {
	// CreateAlertNotification writes the in-app feed entry for a freshly
	// dispatched alert. Severity 4 and up becomes high priority.
	CreateAlertNotification(ctx context.Context, userID snowflake.ID, alert *alertdomain.Alert) (*InternalNotification, error)
	List(ctx context.Context, req ListRequest) ([]InternalNotification, error)
	UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error)
	MarkRead(ctx context.Context, userID, id snowflake.ID) error
	MarkAllRead(ctx context.Context, userID snowflake.ID) (int64, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
