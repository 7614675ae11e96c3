package scheduler

import (
	"context"

	"go.uber.org/fx"

	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	"github.com/sentinel-ews/sentinel/internal/notify"
)

var Module = fx.Module("scheduler",
	fx.Provide(
		func(d *notify.DigestProcessor) DigestRunner { return d },
		func(s notificationdomain.Service) FeedCleaner { return s },
		New,
	),
	fx.Invoke(Run),
)

// Run starts the scheduler loop on app start and stops it with the app.
func Run(lc fx.Lifecycle, s *Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				s.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
