package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/config"
	templatedomain "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/render"
	"github.com/sentinel-ews/sentinel/internal/observability/metrics"
	"github.com/sentinel-ews/sentinel/internal/providers/email"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

type HandlerParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Users    userdomain.Service
	Alerts   alertdomain.Repository
	Renderer *render.Renderer
	Email    email.Provider
	Metrics  *metrics.Metrics `optional:"true"`
}

// Handlers execute the queued delivery tasks. Vanished entities and
// disabled recipients resolve as terminal no-ops; only transport failures
// are retry-eligible.
type Handlers struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.Config
	users    userdomain.Service
	alerts   alertdomain.Repository
	renderer *render.Renderer
	email    email.Provider
	metrics  *metrics.Metrics
}

func NewHandlers(p HandlerParams) *Handlers {
	return &Handlers{
		db:       p.DB,
		log:      p.Log.Named("jobs.handlers"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Cfg,
		users:    p.Users,
		alerts:   p.Alerts,
		renderer: p.Renderer,
		email:    p.Email,
		metrics:  p.Metrics,
	}
}

// Register attaches every task handler to the mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAlertEmail, h.HandleAlertEmail)
	mux.HandleFunc(TypeDigestEmail, h.HandleDigestEmail)
	mux.HandleFunc(TypeVerificationEmail, h.HandleVerificationEmail)
}

func (h *Handlers) HandleAlertEmail(ctx context.Context, task *asynq.Task) error {
	var payload AlertEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode alert email payload: %w: %w", err, asynq.SkipRetry)
	}

	user, err := h.loadRecipient(ctx, payload.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	alert, err := h.alerts.FindByID(ctx, h.db, payload.AlertID)
	if err != nil {
		return err
	}
	if alert == nil {
		h.log.Warn("alert no longer exists, skipping email",
			zap.String("alert_id", payload.AlertID.String()))
		return nil
	}

	rendered, err := h.renderer.Render(ctx, templatedomain.TemplateIndividualAlert, render.RenderContext{
		User:  user,
		Alert: alert,
	})
	if err != nil {
		return fmt.Errorf("render alert email: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.email.Send(ctx, []string{user.Email}, rendered.Subject, rendered.TextContent, rendered.HTMLContent); err != nil {
		return err
	}

	h.markReceived(ctx, payload.UserID, payload.AlertID)
	h.metrics.IncDispatched(metrics.ChannelEmail, 1)

	h.log.Info("alert email sent",
		zap.String("user_id", payload.UserID.String()),
		zap.String("alert_id", payload.AlertID.String()))
	return nil
}

func (h *Handlers) HandleDigestEmail(ctx context.Context, task *asynq.Task) error {
	var payload DigestEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode digest email payload: %w: %w", err, asynq.SkipRetry)
	}

	user, err := h.loadRecipient(ctx, payload.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	alerts, err := h.alerts.FindByIDs(ctx, h.db, payload.AlertIDs)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		h.log.Info("no alerts left for digest, skipping",
			zap.String("user_id", payload.UserID.String()),
			zap.String("frequency", payload.Frequency))
		return nil
	}

	templateName := payload.Frequency + "_digest"
	rendered, err := h.renderer.Render(ctx, templateName, render.RenderContext{
		User:   user,
		Alerts: alerts,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w: %w", templateName, err, asynq.SkipRetry)
	}

	if err := h.email.Send(ctx, []string{user.Email}, rendered.Subject, rendered.TextContent, rendered.HTMLContent); err != nil {
		return err
	}

	for _, alert := range alerts {
		h.markReceived(ctx, payload.UserID, alert.ID)
	}
	h.metrics.IncDispatched(metrics.ChannelEmail, 1)

	h.log.Info("digest email sent",
		zap.String("user_id", payload.UserID.String()),
		zap.String("frequency", payload.Frequency),
		zap.Int("alerts", len(alerts)))
	return nil
}

func (h *Handlers) HandleVerificationEmail(ctx context.Context, task *asynq.Task) error {
	var payload VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode verification payload: %w: %w", err, asynq.SkipRetry)
	}

	user, err := h.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			h.log.Warn("user no longer exists, skipping verification email",
				zap.String("user_id", payload.UserID.String()))
			return nil
		}
		return err
	}
	if user.EmailVerified {
		h.log.Info("email already verified, skipping",
			zap.String("user_id", payload.UserID.String()))
		return nil
	}

	token, err := h.users.EnsureVerificationToken(ctx, payload.UserID)
	if err != nil {
		return err
	}
	verificationURL := fmt.Sprintf("%s/users/verify-email/%s", h.cfg.SiteURL, token)

	rendered, err := h.renderer.Render(ctx, templatedomain.TemplateEmailVerification, render.RenderContext{
		User:  user,
		Extra: map[string]any{"verification_url": verificationURL},
	})
	if err != nil {
		return fmt.Errorf("render verification email: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.email.Send(ctx, []string{user.Email}, rendered.Subject, rendered.TextContent, rendered.HTMLContent); err != nil {
		return err
	}

	if err := h.users.MarkVerificationSent(ctx, payload.UserID); err != nil {
		h.log.Error("failed to record verification send time",
			zap.String("user_id", payload.UserID.String()), zap.Error(err))
	}
	h.metrics.IncDispatched(metrics.ChannelEmail, 1)

	h.log.Info("verification email sent", zap.String("user_id", payload.UserID.String()))
	return nil
}

// loadRecipient resolves the user and applies the delivery gates: a
// vanished user, a disabled master switch or an unverified address all
// skip without retry. Returns nil, nil on a terminal skip.
func (h *Handlers) loadRecipient(ctx context.Context, userID snowflake.ID) (*userdomain.User, error) {
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			h.log.Warn("user no longer exists, skipping email",
				zap.String("user_id", userID.String()))
			return nil, nil
		}
		return nil, err
	}
	if !user.EmailNotificationsEnabled {
		h.log.Info("email notifications disabled for user",
			zap.String("user_id", userID.String()))
		return nil, nil
	}
	if !user.EmailVerified {
		h.log.Warn("email not verified for user",
			zap.String("user_id", userID.String()))
		return nil, nil
	}
	return user, nil
}

func (h *Handlers) markReceived(ctx context.Context, userID, alertID snowflake.ID) {
	now := h.clock.Now()
	_, err := h.alerts.UpsertInteraction(ctx, h.db, h.genID.Generate(), userID, alertID, now,
		func(ua *alertdomain.UserAlert) {
			ua.ReceivedAt = &now
		})
	if err != nil {
		h.log.Error("failed to record delivery",
			zap.String("user_id", userID.String()),
			zap.String("alert_id", alertID.String()),
			zap.Error(err))
	}
}
