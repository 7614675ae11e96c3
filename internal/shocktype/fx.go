package shocktype

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/shocktype/repository"
	"github.com/sentinel-ews/sentinel/internal/shocktype/service"
)

var Module = fx.Module("shocktype.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
