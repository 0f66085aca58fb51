package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/yeremiapane/resto-pos/utils"
)

// channelPublisher is the part of *amqp.Channel the publisher needs.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher mirrors events to a topic exchange so other processes
// (kitchen printers, dashboards) can follow along. A circuit breaker keeps a
// dead broker from slowing requests down.
type AMQPPublisher struct {
	ch       channelPublisher
	exchange string
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker[struct{}]
	closers  []func() error
}

func NewAMQPPublisher(ch channelPublisher, exchange string) *AMQPPublisher {
	st := gobreaker.Settings{
		Name:    "amqp-publish",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.InfoLogger.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		timeout:  time.Second,
		cb:       gobreaker.NewCircuitBreaker[struct{}](st),
	}
}

// DialAMQP connects, opens a channel and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewAMQPPublisher(ch, exchange)
	p.closers = []func() error{ch.Close, conn.Close}
	return p, nil
}

// RoutingKey is resto.<event> in lower case, e.g. resto.orderchanged.
func RoutingKey(ev Event) string {
	return "resto." + strings.ToLower(string(ev.Name))
}

func (p *AMQPPublisher) Notify(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling event: %v", err)
		return
	}

	_, err = p.cb.Execute(func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		return struct{}{}, p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev), false, false, amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		})
	})
	if err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"event":    ev.Name,
			"exchange": p.exchange,
		}).Errorf("amqp publish failed: %v", err)
	}
}

func (p *AMQPPublisher) State() gobreaker.State {
	return p.cb.State()
}

func (p *AMQPPublisher) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
