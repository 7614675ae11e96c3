package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache *cache.Manager
}

// Service manages the template registry. Every write invalidates the
// template cache family so renderers pick up changes.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache *cache.Manager
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("emailtemplate.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.EmailTemplate, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.EmailTemplate, error) {
	template, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, domain.ErrNotFound
	}
	return template, nil
}

// Save upserts the template under its name.
func (s *Service) Save(ctx context.Context, template *domain.EmailTemplate) error {
	if !domain.IsKnownTemplateName(template.Name) {
		return domain.ErrInvalidName
	}
	if template.ID == 0 {
		template.ID = s.genID.Generate()
	}

	if err := s.repo.UpsertByName(ctx, s.db, template); err != nil {
		s.log.Error("failed to save email template",
			zap.String("name", template.Name), zap.Error(err))
		return err
	}

	s.cache.InvalidateTemplates(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	template, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if template == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	s.cache.InvalidateTemplates(ctx)
	return nil
}

// SeedDefaults installs the stock templates, overwriting rows with the
// same name. Idempotent.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for i := range defaultTemplates {
		template := defaultTemplates[i]
		template.ID = s.genID.Generate()
		if err := s.repo.UpsertByName(ctx, s.db, &template); err != nil {
			return err
		}
		s.log.Info("seeded email template", zap.String("name", template.Name))
	}
	s.cache.InvalidateTemplates(ctx)
	return nil
}
