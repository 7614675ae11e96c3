package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/clock"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
)

const defaultValidityDays = 7

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Locations  locationdomain.Repository
	Cache      *cache.Manager
	Dispatcher domain.Dispatcher `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	locations  locationdomain.Repository
	cache      *cache.Manager
	dispatcher domain.Dispatcher
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("alert.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		locations:  p.Locations,
		cache:      p.Cache,
		dispatcher: p.Dispatcher,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "Title is required"}
	}
	if len(title) > 255 {
		title = title[:255]
	}
	if err := domain.ValidateSeverity(req.Severity); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	validFrom := now
	if req.ValidFrom != nil {
		validFrom = *req.ValidFrom
	}
	validUntil := validFrom.AddDate(0, 0, defaultValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}
	if err := domain.ValidateDateRange(validFrom, validUntil); err != nil {
		return nil, err
	}

	var shockType shocktypedomain.ShockType
	if err := s.db.WithContext(ctx).First(&shockType, "id = ?", req.ShockTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShockTypeNotFound
		}
		return nil, err
	}
	var dataSource domain.DataSource
	if err := s.db.WithContext(ctx).First(&dataSource, "id = ?", req.DataSourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDataSourceNotFound
		}
		return nil, err
	}

	alert := &domain.Alert{
		ID:           s.genID.Generate(),
		Title:        title,
		Text:         req.Text,
		ShockTypeID:  req.ShockTypeID,
		DataSourceID: req.DataSourceID,
		ShockDate:    req.ShockDate,
		Severity:     req.Severity,
		GoNoGo:       req.GoNoGo,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
		Metadata:     req.Metadata,
	}
	if alert.GoNoGo {
		alert.GoNoGoDate = &now
	}

	if err := s.repo.Insert(ctx, s.db, alert); err != nil {
		s.log.Error("failed to create alert", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateAlerts(ctx)
	s.cache.InvalidateShockTypes(ctx)

	if len(req.LocationIDs) > 0 {
		return s.AssignLocations(ctx, alert.ID, req.LocationIDs)
	}
	return s.GetByID(ctx, alert.ID)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Alert, error) {
	alert, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}

// AssignLocations sets the alert's geographic scope and kicks off the
// notification fan-out. Dispatch runs regardless of approval state.
func (s *Service) AssignLocations(ctx context.Context, alertID snowflake.ID, locationIDs []snowflake.ID) (*domain.Alert, error) {
	alert, err := s.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}

	locations, err := s.locations.FindByIDs(ctx, s.db, locationIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceLocations(ctx, s.db, alert, locations); err != nil {
		s.log.Error("failed to assign alert locations",
			zap.String("alert_id", alertID.String()), zap.Error(err))
		return nil, err
	}
	alert.Locations = locations

	s.cache.InvalidateAlerts(ctx)
	s.cache.InvalidateShockTypes(ctx)

	if s.dispatcher != nil {
		outcome := s.dispatcher.DispatchAlert(ctx, alert)
		s.log.Info("alert dispatched",
			zap.String("alert_id", alertID.String()),
			zap.Int("email_queued", outcome.EmailQueued),
			zap.Int("internal_created", outcome.InternalCreated),
			zap.Int("slack_sent", outcome.SlackSent),
			zap.Int("errors", outcome.Errors))
	}

	return alert, nil
}

func (s *Service) Approve(ctx context.Context, alertID snowflake.ID) (*domain.Alert, error) {
	alert, err := s.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.GoNoGo {
		return alert, nil
	}

	now := s.clock.Now()
	alert.GoNoGo = true
	alert.GoNoGoDate = &now
	if err := s.repo.Update(ctx, s.db, alert); err != nil {
		return nil, err
	}

	// Approval moves the alert into the active count annotated onto
	// shock type listings.
	s.cache.InvalidateAlerts(ctx)
	s.cache.InvalidateShockTypes(ctx)
	return alert, nil
}

func (s *Service) ListPublic(ctx context.Context, userID *snowflake.ID, filters domain.Filters) ([]domain.Alert, int64, error) {
	key := cache.AlertsKey(userID, map[string]any{
		"shock_type": idString(filters.ShockTypeID),
		"severity":   filters.Severity,
		"active":     filters.ActiveOnly,
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})

	var cached struct {
		Alerts []domain.Alert `json:"alerts"`
		Total  int64          `json:"total"`
	}
	if s.cache.Get(ctx, key, &cached) {
		return cached.Alerts, cached.Total, nil
	}

	alerts, total, err := s.repo.ListApproved(ctx, s.db, s.clock.Now(), filters)
	if err != nil {
		return nil, 0, err
	}

	cached.Alerts = alerts
	cached.Total = total
	s.cache.Set(ctx, key, cached, cache.AlertsTTL)
	return alerts, total, nil
}

func (s *Service) GetPublicDetail(ctx context.Context, alertID snowflake.ID, userID *snowflake.ID) (*domain.AlertDetail, error) {
	key := cache.AlertDetailKey(alertID, userID)

	var cached domain.AlertDetail
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	alert, err := s.repo.FindByID(ctx, s.db, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil || !alert.GoNoGo {
		return nil, domain.ErrNotFound
	}

	avg, count, err := s.repo.AverageRating(ctx, s.db, alertID)
	if err != nil {
		return nil, err
	}

	detail := &domain.AlertDetail{
		Alert:         alert,
		AverageRating: avg,
		RatingCount:   count,
	}
	if userID != nil {
		interaction, err := s.repo.FindInteraction(ctx, s.db, *userID, alertID)
		if err != nil {
			return nil, err
		}
		detail.Interaction = interaction
	}

	s.cache.Set(ctx, key, detail, cache.AlertsTTL)
	return detail, nil
}

func (s *Service) GetStats(ctx context.Context, userID *snowflake.ID) (*domain.Stats, error) {
	key := cache.StatsKey(userID)

	var cached domain.Stats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	overview, err := s.repo.CollectStats(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{Overview: overview}
	if userID != nil {
		userStats, err := s.repo.CollectUserStats(ctx, s.db, *userID)
		if err != nil {
			return nil, err
		}
		stats.User = userStats
	}

	s.cache.Set(ctx, key, stats, cache.StatsTTL)
	return stats, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, alertID snowflake.ID) (*domain.UserAlert, error) {
	now := s.clock.Now()
	return s.mutateInteraction(ctx, userID, alertID, func(ua *domain.UserAlert) {
		if ua.ReadAt == nil {
			ua.ReadAt = &now
		}
	})
}

func (s *Service) SetRating(ctx context.Context, userID, alertID snowflake.ID, rating int) (*domain.UserAlert, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return s.mutateInteraction(ctx, userID, alertID, func(ua *domain.UserAlert) {
		ua.Rating = &rating
		ua.RatingAt = &now
	})
}

func (s *Service) ToggleBookmark(ctx context.Context, userID, alertID snowflake.ID) (*domain.UserAlert, error) {
	return s.mutateInteraction(ctx, userID, alertID, func(ua *domain.UserAlert) {
		ua.Bookmarked = !ua.Bookmarked
	})
}

func (s *Service) ToggleFlag(ctx context.Context, userID, alertID snowflake.ID, flagType string) (*domain.UserAlert, error) {
	if err := domain.ValidateFlagType(flagType); err != nil {
		return nil, err
	}
	return s.mutateInteraction(ctx, userID, alertID, func(ua *domain.UserAlert) {
		switch flagType {
		case domain.FlagTypeFalse:
			ua.FlagFalse = !ua.FlagFalse
		case domain.FlagTypeIncomplete:
			ua.FlagIncomplete = !ua.FlagIncomplete
		}
	})
}

func (s *Service) AddComment(ctx context.Context, userID, alertID snowflake.ID, comment string) (*domain.UserAlert, error) {
	return s.mutateInteraction(ctx, userID, alertID, func(ua *domain.UserAlert) {
		ua.Comment = comment
	})
}

func (s *Service) mutateInteraction(ctx context.Context, userID, alertID snowflake.ID, mutate func(*domain.UserAlert)) (*domain.UserAlert, error) {
	alert, err := s.repo.FindByID(ctx, s.db, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}

	interaction, err := s.repo.UpsertInteraction(ctx, s.db, s.genID.Generate(), userID, alertID, s.clock.Now(), mutate)
	if err != nil {
		s.log.Error("failed to upsert alert interaction",
			zap.String("user_id", userID.String()),
			zap.String("alert_id", alertID.String()),
			zap.Error(err))
		return nil, err
	}

	// Ratings and flags feed the aggregates baked into every cached list
	// and detail, so the shared alert families go too, not just the user's.
	s.cache.InvalidateAlerts(ctx)
	s.cache.InvalidateUser(ctx, userID)
	return interaction, nil
}

func idString(id *snowflake.ID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
