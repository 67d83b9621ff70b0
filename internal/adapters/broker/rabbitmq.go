package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"stockchat/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// RabbitMQ provides publish and manual-ack consume primitives over a single
// connection and channel. It does not self-heal: on connection loss the
// process restarts and redeclares the topology.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	topology Topology

	// The channel is single-writer; concurrent publishes are serialized here.
	publishMu sync.Mutex
}

// Connect dials the broker, opens a channel, sets the prefetch limit and
// declares the topology. Declaration is idempotent, safe on every start.
func Connect(url string, topology Topology, prefetch int) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := channel.Qos(prefetch, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting prefetch: %w", err)
	}

	r := &RabbitMQ{conn: conn, channel: channel, topology: topology}
	if err := r.declareTopology(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info().
		Str("commandsQueue", topology.CommandsQueue).
		Str("eventsQueue", topology.EventsQueue).
		Msg("broker topology declared")

	return r, nil
}

func (r *RabbitMQ) declareTopology() error {
	for _, exchange := range []string{r.topology.CommandsExchange, r.topology.EventsExchange} {
		if err := r.channel.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declaring exchange %s: %w", exchange, err)
		}
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{r.topology.CommandsQueue, r.topology.CommandsExchange, RoutingKeyStockCommand},
		{r.topology.EventsQueue, r.topology.EventsExchange, RoutingKeyBotMessage},
	}

	for _, b := range bindings {
		if _, err := r.channel.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declaring queue %s: %w", b.queue, err)
		}
		if err := r.channel.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("binding queue %s: %w", b.queue, err)
		}
	}

	return nil
}

func (r *RabbitMQ) Topology() Topology {
	return r.topology
}

// Publish serializes the payload as JSON and publishes it persistently.
// Transport errors propagate; the caller decides whether to retry or drop.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload for %s/%s: %w", exchange, routingKey, err)
	}

	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	err = r.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing to %s/%s: %w", exchange, routingKey, err)
	}

	log.Debug().Str("exchange", exchange).Str("routingKey", routingKey).Msg("published message")
	return nil
}

// Consume delivers queue messages to the handler until ctx is cancelled, then
// stops accepting deliveries and waits for in-flight handlers to settle their
// acknowledgments. Blocks for the lifetime of the consumer.
func (r *RabbitMQ) Consume(ctx context.Context, queue string, handler port.MessageHandler) error {
	tag := "stockchat-" + queue

	deliveries, err := r.channel.Consume(queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consuming from %s: %w", queue, err)
	}

	log.Info().Str("queue", queue).Msg("consumer started")

	var inFlight sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			if err := r.channel.Cancel(tag, false); err != nil {
				log.Warn().Err(err).Str("queue", queue).Msg("failed to cancel consumer")
			}
			inFlight.Wait()
			log.Info().Str("queue", queue).Msg("consumer drained")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				inFlight.Wait()
				return fmt.Errorf("delivery channel for %s closed", queue)
			}
			inFlight.Add(1)
			go func() {
				defer inFlight.Done()
				// In-flight handlers finish their work and settle their
				// acknowledgment even while the consumer is draining.
				settle(d, handler(context.WithoutCancel(ctx), d.Body))
			}()
		}
	}
}

// settle acks a successful delivery, drops a poison message without requeue
// and requeues everything else for another attempt.
func settle(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		if err := d.Ack(false); err != nil {
			log.Error().Err(err).Msg("failed to ack delivery")
		}
	case errors.Is(err, port.ErrDiscardMessage):
		log.Warn().Err(err).Msg("discarding poison message")
		if err := d.Nack(false, false); err != nil {
			log.Error().Err(err).Msg("failed to nack delivery")
		}
	default:
		log.Error().Err(err).Msg("handler failed, requeueing delivery")
		if err := d.Nack(false, true); err != nil {
			log.Error().Err(err).Msg("failed to nack delivery")
		}
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return r.conn.Close()
	}
	return r.conn.Close()
}
