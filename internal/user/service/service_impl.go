package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/sentinel-ews/sentinel/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                s.genID.Generate(),
		Username:          username,
		Email:             email,
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		PreferredLanguage: "en",
		Timezone:          "UTC",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *Service) SetEmailNotifications(ctx context.Context, id snowflake.ID, enabled bool) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.EmailNotificationsEnabled = enabled
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) EnsureVerificationToken(ctx context.Context, id snowflake.ID) (string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user.EmailVerificationToken != "" {
		return user.EmailVerificationToken, nil
	}
	user.EmailVerificationToken = uuid.NewString()
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return "", err
	}
	return user.EmailVerificationToken, nil
}

func (s *Service) MarkVerificationSent(ctx context.Context, id snowflake.ID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user.EmailVerificationSentAt = &now
	user.UpdatedAt = now
	return s.repo.Update(ctx, s.db, user)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.repo.FindByVerificationToken(ctx, s.db, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	if user.EmailVerified {
		return user, nil
	}
	user.EmailVerified = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return nil, err
	}
	s.log.Info("email verified", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, user.ID)
}
