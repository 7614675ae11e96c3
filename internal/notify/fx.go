package notify

import (
	"go.uber.org/fx"

	"github.com/sentinel-ews/sentinel/internal/jobs"
	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
	"github.com/sentinel-ews/sentinel/internal/providers/slack"
	subscriptiondomain "github.com/sentinel-ews/sentinel/internal/subscription/domain"
)

var Module = fx.Module("notify",
	fx.Provide(
		func(s subscriptiondomain.Service) Matcher { return s },
		func(s subscriptiondomain.Service) SubscriptionLister { return s },
		func(s notificationdomain.Service) FeedCreator { return s },
		func(p slack.Provider) SlackPoster { return p },
		func(e jobs.Enqueuer) EmailEnqueuer { return e },
		func(e jobs.Enqueuer) DigestEnqueuer { return e },
		NewDispatcher,
		AsAlertDispatcher,
		NewDigestProcessor,
	),
)
