package location

import (
	"github.com/sentinel-ews/sentinel/internal/location/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("location",
	fx.Provide(repository.Provide),
)
