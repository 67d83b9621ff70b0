package port

import (
	"context"
	"errors"
)

// ErrDiscardMessage tells the consumer to reject a delivery without requeue.
// Handlers return it for poison messages that would never succeed on retry;
// any other error requeues the delivery for another attempt.
var ErrDiscardMessage = errors.New("discard message")

// MessageHandler processes one raw delivery. Handlers may run concurrently
// for different messages, bounded by the consumer's prefetch setting.
type MessageHandler func(ctx context.Context, body []byte) error

type Publisher interface {
	// Publish serializes the payload and publishes it to the given exchange
	// under the given routing key. Transport failures propagate to the caller.
	Publish(ctx context.Context, exchange, routingKey string, payload any) error
}

type Consumer interface {
	// Consume delivers messages from the queue to the handler with manual
	// acknowledgment until ctx is cancelled, then drains in-flight handlers.
	Consume(ctx context.Context, queue string, handler MessageHandler) error
}
