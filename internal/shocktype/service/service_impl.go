package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/clock"
	"github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/pkg/db"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Cache *cache.Manager
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	cache *cache.Manager
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("shocktype.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateShockTypeRequest) (*domain.ShockType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	shockType := &domain.ShockType{
		ID:       s.genID.Generate(),
		Name:     name,
		Icon:     req.Icon,
		Color:    req.Color,
		CSSClass: req.CSSClass,
	}
	if shockType.CSSClass == "" {
		shockType.CSSClass = domain.DeriveCSSClass(name)
	}

	if err := s.repo.Insert(ctx, s.db, shockType); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		s.log.Error("failed to create shock type", zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateShockTypes(ctx)
	return shockType, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateShockTypeRequest) (*domain.ShockType, error) {
	shockType, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if shockType == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		shockType.Name = name
	}
	if req.Icon != nil {
		shockType.Icon = *req.Icon
	}
	if req.Color != nil {
		shockType.Color = *req.Color
	}
	if req.CSSClass != nil {
		shockType.CSSClass = *req.CSSClass
	}
	if shockType.CSSClass == "" {
		shockType.CSSClass = domain.DeriveCSSClass(shockType.Name)
	}

	if err := s.repo.Update(ctx, s.db, shockType); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		s.log.Error("failed to update shock type", zap.String("id", req.ID.String()), zap.Error(err))
		return nil, err
	}

	s.cache.InvalidateShockTypes(ctx)
	return shockType, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.ShockType, error) {
	shockType, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if shockType == nil {
		return nil, domain.ErrNotFound
	}
	return shockType, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ShockType, error) {
	key := cache.ShockTypesKey(false)

	var cached []domain.ShockType
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	shockTypes, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, shockTypes, cache.ShockTypesTTL)
	return shockTypes, nil
}

func (s *Service) ListWithStats(ctx context.Context) ([]domain.ShockTypeWithStats, error) {
	key := cache.ShockTypesKey(true)

	var cached []domain.ShockTypeWithStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	shockTypes, err := s.repo.ListWithStats(ctx, s.db, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, shockTypes, cache.ShockTypesTTL)
	return shockTypes, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	shockType, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if shockType == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountAlerts(ctx, s.db, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrInUse
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		s.log.Error("failed to delete shock type", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	s.cache.InvalidateShockTypes(ctx)
	return nil
}
