package jobs

import (
	"go.uber.org/fx"
)

// ClientModule provides only the enqueue side; the web and scheduler
// processes submit tasks without hosting a worker.
var ClientModule = fx.Module("jobs.client",
	fx.Provide(NewClient),
)

// WorkerModule hosts the task handlers.
var WorkerModule = fx.Module("jobs.worker",
	fx.Provide(
		NewClient,
		NewHandlers,
		NewServer,
		NewMux,
	),
	fx.Invoke(RunServer),
)
