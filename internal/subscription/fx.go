package subscription

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/subscription/repository"
	"github.com/sentinel-ews/sentinel/internal/subscription/service"
)

var Module = fx.Module("subscription.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
