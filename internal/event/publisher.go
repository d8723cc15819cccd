package event

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Routing keys for the topic exchange.
const (
	QuizCreated      = "quiz.created"
	QuizUpdated      = "quiz.updated"
	QuizDeleted      = "quiz.deleted"
	QuizPublished    = "quiz.published"
	AttemptSubmitted = "quiz.attempt.submitted"
	SessionOpened    = "quiz.session.opened"
	SessionClosed    = "quiz.session.closed"
)

// Publisher emits domain events onto a RabbitMQ topic exchange. It is
// optional: a nil *Publisher silently drops events.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event, using the routing key as the event type.
// Failures are logged, not returned: events are best-effort and must
// never fail the request that produced them.
func (p *Publisher) Publish(routingKey string, payload interface{}) {
	if p == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"type":      routingKey,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		logrus.WithError(err).WithField("event", routingKey).Error("failed to encode event")
		return
	}

	err = p.channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logrus.WithError(err).WithField("event", routingKey).Error("failed to publish event")
		return
	}
	logrus.WithField("event", routingKey).Debug("event published")
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
