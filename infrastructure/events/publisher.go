package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

//go:generate mockgen -source=publisher.go -destination=mocks/publisher.go -package=mocks

const publishTimeout = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type amqpPublisher struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewPublisher conecta ao broker e declara o exchange. Sem URL os eventos são apenas registrados em log.
func NewPublisher(url, exchangeName string) (Publisher, error) {
	if url == "" {
		log.L.Info("EVENTS_AMQP_URL não configurada, eventos de domínio desabilitados")
		return NoopPublisher{}, nil
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("erro ao abrir canal: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("erro ao declarar exchange: %w", err)
	}

	return &amqpPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("erro ao serializar evento: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp091.Channel não é seguro para publicação concorrente
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			Timestamp:     event.OccurredAt,
			CorrelationId: log.GetCorrelationID(ctx),
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("erro ao publicar evento: %w", err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"event_type":  event.Type,
		"business_id": event.BusinessID,
		"exchange":    p.exchangeName,
	}).Debug("Evento publicado")

	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher descarta os eventos
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error {
	log.ForContext(ctx).WithField("event_type", event.Type).Debug("Evento descartado, publicador desabilitado")
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
