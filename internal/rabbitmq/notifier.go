package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Notifier publishes notification events on the email routing key. Callers
// treat failures as best effort: they log and move on, the triggering
// request is never failed because of the bus.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier wraps an already set up channel.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// Publish sends one notification event to the email queue.
func (n *Notifier) Publish(notif models.Notification) error {
	return PublishMessage(n.ch, Exchange, EmailRoutingKey, notif)
}
