package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sentinel-ews/sentinel/internal/alert"
	alertdomain "github.com/sentinel-ews/sentinel/internal/alert/domain"
	"github.com/sentinel-ews/sentinel/internal/cache"
	"github.com/sentinel-ews/sentinel/internal/config"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate"
	emailtemplatedomain "github.com/sentinel-ews/sentinel/internal/emailtemplate/domain"
	"github.com/sentinel-ews/sentinel/internal/jobs"
	"github.com/sentinel-ews/sentinel/internal/location"
	"github.com/sentinel-ews/sentinel/internal/notification"
	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	"github.com/sentinel-ews/sentinel/internal/notify"
	"github.com/sentinel-ews/sentinel/internal/observability"
	"github.com/sentinel-ews/sentinel/internal/providers/email"
	"github.com/sentinel-ews/sentinel/internal/providers/slack"
	"github.com/sentinel-ews/sentinel/internal/shocktype"
	shocktypedomain "github.com/sentinel-ews/sentinel/internal/shocktype/domain"
	"github.com/sentinel-ews/sentinel/internal/subscription"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
	"github.com/sentinel-ews/sentinel/internal/user"
	userdomain "github.com/sentinel-ews/sentinel/internal/user/domain"
)

var Module = fx.Module("http.server",
	cache.Module,
	location.Module,
	shocktype.Module,
	user.Module,
	emailtemplate.Module,
	alert.Module,
	subscription.Module,
	notification.Module,
	email.Module,
	slack.Module,
	jobs.ClientModule,
	notify.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config) *gin.Engine {
	return NewEngine(log, obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	alertSvc        alertdomain.Service
	shockTypeSvc    shocktypedomain.Service
	subscriptionSvc subscriptiondomain.Service
	notificationSvc notificationdomain.Service
	userSvc         userdomain.Service
	templateSvc     emailtemplatedomain.Service
	enqueuer        jobs.Enqueuer
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	AlertSvc        alertdomain.Service
	ShockTypeSvc    shocktypedomain.Service
	SubscriptionSvc subscriptiondomain.Service
	NotificationSvc notificationdomain.Service
	UserSvc         userdomain.Service
	TemplateSvc     emailtemplatedomain.Service
	Enqueuer        jobs.Enqueuer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		alertSvc:        p.AlertSvc,
		shockTypeSvc:    p.ShockTypeSvc,
		subscriptionSvc: p.SubscriptionSvc,
		notificationSvc: p.NotificationSvc,
		userSvc:         p.UserSvc,
		templateSvc:     p.TemplateSvc,
		enqueuer:        p.Enqueuer,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.UserContext())

	// -------- Shock types --------
	api.GET("/shock-types", s.ListShockTypes)
	api.GET("/shock-types/:id", s.GetShockTypeByID)
	api.POST("/shock-types", s.CreateShockType)
	api.PATCH("/shock-types/:id", s.UpdateShockType)
	api.DELETE("/shock-types/:id", s.DeleteShockType)

	// -------- Alerts --------
	// Read endpoints only expose approved alerts.
	api.GET("/alerts", s.ListAlerts)
	api.GET("/alerts/stats", s.GetAlertStats)
	api.GET("/alerts/:id", s.GetAlertByID)

	// Ingestion and review. Alerts arrive unapproved.
	api.POST("/webhooks/alerts", s.IngestAlert)
	api.POST("/alerts/:id/approve", s.ApproveAlert)
	api.PUT("/alerts/:id/locations", s.AssignAlertLocations)

	// -------- Interactions --------
	api.POST("/alerts/:id/read", s.UserRequired(), s.MarkAlertRead)
	api.POST("/alerts/:id/rating", s.UserRequired(), s.RateAlert)
	api.POST("/alerts/:id/bookmark", s.UserRequired(), s.ToggleAlertBookmark)
	api.POST("/alerts/:id/flag", s.UserRequired(), s.FlagAlert)
	api.POST("/alerts/:id/comment", s.UserRequired(), s.CommentAlert)

	// -------- Subscriptions --------
	api.GET("/subscriptions", s.UserRequired(), s.ListSubscriptions)
	api.POST("/subscriptions", s.UserRequired(), s.CreateSubscription)
	api.GET("/subscriptions/:id", s.UserRequired(), s.GetSubscriptionByID)
	api.PATCH("/subscriptions/:id", s.UserRequired(), s.UpdateSubscription)
	api.DELETE("/subscriptions/:id", s.UserRequired(), s.DeleteSubscription)

	// -------- Notification feed --------
	api.GET("/notifications", s.UserRequired(), s.ListNotifications)
	api.GET("/notifications/unread-count", s.UserRequired(), s.GetUnreadCount)
	api.POST("/notifications/:id/read", s.UserRequired(), s.MarkNotificationRead)
	api.POST("/notifications/read-all", s.UserRequired(), s.MarkAllNotificationsRead)

	// -------- Users --------
	api.POST("/users", s.CreateUser)
	api.GET("/users/me", s.UserRequired(), s.GetCurrentUser)
	api.POST("/users/me/email-notifications", s.UserRequired(), s.SetEmailNotifications)
	api.POST("/users/me/send-verification", s.UserRequired(), s.SendVerificationEmail)
	api.GET("/users/verify-email/:token", s.VerifyEmail)

	// -------- Email templates --------
	api.GET("/email-templates", s.ListEmailTemplates)
	api.GET("/email-templates/:id", s.GetEmailTemplateByID)
	api.PUT("/email-templates", s.SaveEmailTemplate)
	api.DELETE("/email-templates/:id", s.DeleteEmailTemplate)
}
