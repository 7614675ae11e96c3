package notification

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/notification/repository"
	"github.com/sentinel-ews/sentinel/internal/notification/service"
)

var Module = fx.Module("notification.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
