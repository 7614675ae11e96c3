package slack

import (
	"context"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
)

// Provider posts an alert to the configured channel. Returns true iff the
// remote service accepted the message; disabled integration and API
// failures both surface as false, never as an error.
type Provider interface {
	PostAlert(ctx context.Context, alert *alertdomain.Alert) bool
}

// NoOp is used when the integration is disabled.
type NoOp struct{}

func (NoOp) PostAlert(context.Context, *alertdomain.Alert) bool { return false }
