package jobs

import (
	"github.com/bwmarrin/snowflake"
)

// Task type names routed through the queue.
const (
	TypeAlertEmail        = "email:alert"
	TypeDigestEmail       = "email:digest"
	TypeVerificationEmail = "email:verify"
)

type AlertEmailPayload struct {
	UserID  snowflake.ID `json:"user_id"`
	AlertID snowflake.ID `json:"alert_id"`
}

type DigestEmailPayload struct {
	UserID    snowflake.ID   `json:"user_id"`
	AlertIDs  []snowflake.ID `json:"alert_ids"`
	Frequency string         `json:"frequency"`
}

type VerificationEmailPayload struct {
	UserID snowflake.ID `json:"user_id"`
}
