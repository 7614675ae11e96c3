package emailtemplate

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/emailtemplate/render"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/repository"
	"github.com/sentinel-ews/sentinel/internal/emailtemplate/service"
)

var Module = fx.Module("emailtemplate.service",
	fx.Provide(
		repository.Provide,
		service.New,
		render.New,
	),
)
