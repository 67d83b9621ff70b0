package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/rs/zerolog/log"
)

// StockBot is the command worker: it consumes stock commands, resolves them
// against the quote fetcher and publishes the result as a bot message event.
// Provider failures come back from the fetcher as apology text, so the only
// retryable failure here is the event publish itself.
type StockBot struct {
	consumer     port.Consumer
	publisher    port.Publisher
	fetcher      port.QuoteFetcher
	streams      Streams
	fetchTimeout time.Duration
}

func NewStockBot(consumer port.Consumer, publisher port.Publisher, fetcher port.QuoteFetcher,
	streams Streams, fetchTimeout time.Duration) *StockBot {
	return &StockBot{
		consumer:     consumer,
		publisher:    publisher,
		fetcher:      fetcher,
		streams:      streams,
		fetchTimeout: fetchTimeout,
	}
}

// Run consumes the commands queue until ctx is cancelled.
func (b *StockBot) Run(ctx context.Context) error {
	log.Info().Str("queue", b.streams.CommandsQueue).Msg("stock bot worker starting")
	return b.consumer.Consume(ctx, b.streams.CommandsQueue, b.HandleCommand)
}

func (b *StockBot) HandleCommand(ctx context.Context, body []byte) error {
	var command domain.StockCommand
	if err := json.Unmarshal(body, &command); err != nil {
		log.Warn().Err(err).Str("body", string(body)).Msg("undeserializable stock command")
		return fmt.Errorf("decoding stock command: %w", port.ErrDiscardMessage)
	}

	l := log.With().
		Str("stockCode", command.StockCode).
		Str("roomId", command.RoomID.String()).
		Logger()

	l.Info().Msg("processing stock command")

	fetchCtx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
	defer cancel()

	quote := b.safeFetch(fetchCtx, command.StockCode)

	event := domain.BotMessage{
		RoomID:       command.RoomID,
		Message:      quote,
		CreatedAtUTC: time.Now().UTC(),
	}

	if err := b.publisher.Publish(ctx, b.streams.EventsExchange, b.streams.EventsKey, event); err != nil {
		return fmt.Errorf("publishing bot message: %w", err)
	}

	l.Info().Str("quote", quote).Msg("published bot message")
	return nil
}

// safeFetch degrades an unexpected fault in the fetcher to an apology so the
// command is still answered and acknowledged instead of looping in redelivery.
func (b *StockBot) safeFetch(ctx context.Context, code string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stockCode", code).Msg("quote fetch panicked")
			result = fmt.Sprintf("Sorry, I couldn't fetch the quote for %s. Please try again later.",
				strings.ToUpper(code))
		}
	}()
	return b.fetcher.FetchQuote(ctx, code)
}
