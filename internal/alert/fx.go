package alert

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/alert/repository"
	"github.com/sentinel-ews/sentinel/internal/alert/service"
)

var Module = fx.Module("alert.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
