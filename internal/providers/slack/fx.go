package slack

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sentinel-ews/sentinel/internal/config"
)

var Module = fx.Module("providers.slack",
	fx.Provide(newProvider),
)

func newProvider(cfg config.Config, log *zap.Logger) Provider {
	if !cfg.SlackEnabled || cfg.SlackBotToken == "" {
		log.Named("slack").Debug("slack integration disabled")
		return NoOp{}
	}
	return NewWebAPI(cfg, log)
}
