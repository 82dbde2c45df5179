package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"coop-loan-service/internal/domain/loan"

	"github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "loan_events"

// Publisher sends a JSON body to a topic exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// Producer publishes to a durable topic exchange.
type Producer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

func NewProducer(amqpURL, exchange string) (*Producer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	// bounded dial so startup does not hang
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
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
	return &Producer{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}
	// one-shot retry on a fresh channel
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	p.channel = ch
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Fallback is used when no broker is configured or reachable.
type Fallback struct{ Log *slog.Logger }

func (f Fallback) Publish(_ context.Context, routingKey string, _ any) error {
	log := f.Log
	if log == nil {
		log = slog.Default()
	}
	log.Debug("event publish skipped", slog.String("component", "events"), slog.String("routing_key", routingKey))
	return nil
}

func (Fallback) Close() {}

// Notifier forwards loan events to a Publisher, keyed by event type.
type Notifier struct {
	Pub     Publisher
	Log     *slog.Logger
	Timeout time.Duration
}

func (n Notifier) Notify(ctx context.Context, ev loan.Event) {
	if n.Pub == nil {
		return
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	// the request may finish before the broker answers
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := n.Pub.Publish(pctx, string(ev.Type), ev); err != nil {
		log := n.Log
		if log == nil {
			log = slog.Default()
		}
		log.Warn("event publish failed",
			slog.String("component", "events"),
			slog.String("type", string(ev.Type)),
			slog.String("loan_id", ev.LoanID),
			slog.Any("err", err))
	}
}
