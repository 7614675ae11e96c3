package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/notification/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateAlertNotification(ctx context.Context, userID snowflake.ID, alert *alertdomain.Alert) (*domain.InternalNotification, error) {
	notification := &domain.InternalNotification{
		ID:       s.genID.Generate(),
		UserID:   userID,
		Type:     domain.TypeAlert,
		Priority: domain.PriorityForSeverity(alert.Severity),
		Title:    fmt.Sprintf("New Alert: %s", alert.Title),
		Message: fmt.Sprintf("A new %s alert has been issued for your subscribed locations.",
			alert.ShockType.Name),
		AlertID:    &alert.ID,
		ActionURL:  fmt.Sprintf("/alerts/%s", alert.ID.String()),
		ActionText: "View Alert",
	}

	if err := s.repo.Insert(ctx, s.db, notification); err != nil {
		return nil, err
	}

	s.log.Debug("created internal notification",
		zap.String("notification_id", notification.ID.String()),
		zap.String("user_id", userID.String()))
	return notification, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.InternalNotification, error) {
	return s.repo.ListByUser(ctx, s.db, req.UserID, req.UnreadOnly, req.Limit, req.Offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.repo.UnreadCount(ctx, s.db, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id snowflake.ID) error {
	notification, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return domain.ErrNotFound
	}
	return s.repo.MarkRead(ctx, s.db, id, s.clock.Now())
}

func (s *Service) MarkAllRead(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.repo.MarkAllRead(ctx, s.db, userID, s.clock.Now())
}

func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.db, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("removed expired notifications", zap.Int64("count", deleted))
	}
	return deleted, nil
}
