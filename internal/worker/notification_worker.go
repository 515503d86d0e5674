package worker

import (
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/service"
)

// Dependencies lists the event consumers to attach. Either may be nil.
type Dependencies struct {
	Dispatcher    events.Dispatcher
	Notifications *service.NotificationService
	Kafka         *events.KafkaPublisher
}

// StartNotificationWorker registers notification handlers and, when Kafka
// is configured, forwards every event to the broker.
func StartNotificationWorker(deps Dependencies) {
	if deps.Notifications != nil {
		deps.Notifications.RegisterHandlers()
	}
	if deps.Kafka != nil && deps.Dispatcher != nil {
		deps.Kafka.SubscribeAll(deps.Dispatcher)
	}
}
