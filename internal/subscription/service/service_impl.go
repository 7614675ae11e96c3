package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	locationdomain "github.com/sentinel-ews/sentinel/internal/location/domain"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Locations locationdomain.Repository
	Cache     *cache.Manager
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	locations locationdomain.Repository
	cache     *cache.Manager
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("subscription.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		locations: p.Locations,
		cache:     p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (*domain.Subscription, error) {
	frequency := req.Frequency
	if frequency == "" {
		frequency = domain.FrequencyImmediate
	}
	if !domain.IsValidFrequency(frequency) {
		return nil, domain.ErrInvalidFrequency
	}

	sub := &domain.Subscription{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		Active:    true,
		Method:    domain.MethodEmail,
		Frequency: frequency,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, sub); err != nil {
			return err
		}
		if err := s.setRelations(ctx, tx, sub, req.LocationIDs, req.ShockTypeIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to create subscription",
			zap.String("user_id", req.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateUser(ctx, req.UserID)
	return s.repo.FindByID(ctx, s.db, sub.ID)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	sub, err := s.ownedByUser(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Frequency != nil {
		if !domain.IsValidFrequency(*req.Frequency) {
			return nil, domain.ErrInvalidFrequency
		}
		sub.Frequency = *req.Frequency
	}
	if req.Active != nil {
		sub.Active = *req.Active
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, sub); err != nil {
			return err
		}
		return s.setRelations(ctx, tx, sub, req.LocationIDs, req.ShockTypeIDs)
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, req.UserID)
	return s.repo.FindByID(ctx, s.db, sub.ID)
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	if _, err := s.ownedByUser(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (*domain.Subscription, error) {
	return s.ownedByUser(ctx, userID, id)
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Subscription, error) {
	return s.repo.ListByUser(ctx, s.db, userID)
}

func (s *Service) Match(ctx context.Context, alert *alertdomain.Alert) ([]domain.Subscription, error) {
	if len(alert.Locations) == 0 {
		return nil, nil
	}

	locationIDs := make([]snowflake.ID, 0, len(alert.Locations))
	for _, loc := range alert.Locations {
		locationIDs = append(locationIDs, loc.ID)
	}

	// Expand up the parent chain so a state-level subscription matches a
	// city-level alert.
	expanded, err := s.locations.AncestorIDs(ctx, s.db, locationIDs)
	if err != nil {
		return nil, err
	}

	return s.repo.Match(ctx, s.db, expanded, alert.ShockTypeID)
}

func (s *Service) ListActiveByFrequency(ctx context.Context, frequency string) ([]domain.Subscription, error) {
	if !domain.IsValidFrequency(frequency) {
		return nil, domain.ErrInvalidFrequency
	}
	return s.repo.ListActiveByFrequency(ctx, s.db, frequency)
}

func (s *Service) ownedByUser(ctx context.Context, userID, id snowflake.ID) (*domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	if sub.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return sub, nil
}

func (s *Service) setRelations(ctx context.Context, tx *gorm.DB, sub *domain.Subscription, locationIDs, shockTypeIDs []snowflake.ID) error {
	if locationIDs != nil {
		locations, err := s.locations.FindByIDs(ctx, tx, locationIDs)
		if err != nil {
			return err
		}
		if err := s.repo.ReplaceLocations(ctx, tx, sub, locations); err != nil {
			return err
		}
	}
	if shockTypeIDs != nil {
		var shockTypes []shocktypedomain.ShockType
		if len(shockTypeIDs) > 0 {
			if err := tx.WithContext(ctx).Where("id IN ?", shockTypeIDs).Find(&shockTypes).Error; err != nil {
				return err
			}
		}
		if err := s.repo.ReplaceShockTypes(ctx, tx, sub, shockTypes); err != nil {
			return err
		}
	}
	return nil
}
