package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
)

var (
	ErrNotFound         = errors.New("not_found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidFrequency = errors.New("invalid_frequency")
)

type CreateSubscriptionRequest struct {
	UserID       snowflake.ID
	LocationIDs  []snowflake.ID
	ShockTypeIDs []snowflake.ID
	Frequency    string
}

type UpdateSubscriptionRequest struct {
	ID           snowflake.ID
	UserID       snowflake.ID
	LocationIDs  []snowflake.ID
	ShockTypeIDs []snowflake.ID
	Active       *bool
	Frequency    *string
}

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
	// Update rejects callers that do not own the subscription.
	Update(ctx context.Context, req UpdateSubscriptionRequest) (*Subscription, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
	GetByID(ctx context.Context, userID, id snowflake.ID) (*Subscription, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Subscription, error)
	// Match computes the subscriptions reached by an alert: the alert's
	// locations are expanded up the parent chain, then intersected with
	// subscription locations; shock types must intersect exactly.
	// Approval state is not consulted.
	Match(ctx context.Context, alert *alertdomain.Alert) ([]Subscription, error)
	ListActiveByFrequency(ctx context.Context, frequency string) ([]Subscription, error)
}
