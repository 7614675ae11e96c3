package user

import (
	"github.com/sentinel-ews/sentinel/internal/user/repository"
	"github.com/sentinel-ews/sentinel/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
