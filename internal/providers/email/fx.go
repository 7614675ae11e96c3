package email

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

var Module = fx.Module("providers.email",
	fx.Provide(newProvider),
)

func newProvider(cfg config.Config, log *zap.Logger) Provider {
	if cfg.SMTPHost == "" {
		return NewNoOp(log)
	}
	return NewSMTP(cfg, log)
}
