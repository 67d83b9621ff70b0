package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"stockchat/internal/core/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Messages persists chat messages in badger.
//
// Keys are "msg:{room_id}:{timestamp_padded}:{uuid}": the 19-digit zero-padded
// unix-nano timestamp makes lexicographical order chronological per room, and
// the uuid suffix disambiguates two messages landing on the same nanosecond.
type Messages struct {
	db *badger.DB
}

func NewMessages(db *badger.DB) *Messages {
	return &Messages{db: db}
}

func messageKey(m domain.ChatMessage) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.RoomID, m.CreatedAtUTC.UnixNano(), m.ID))
}

func (s *Messages) StoreMessage(_ context.Context, message domain.ChatMessage) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), value)
	})
}

// LatestMessages walks the room's keyspace backwards from the newest entry,
// stops after limit messages and re-ascends the result for display order.
func (s *Messages) LatestMessages(_ context.Context, roomID uuid.UUID, limit int) ([]domain.ChatMessage, error) {
	var newestFirst []domain.ChatMessage

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))

		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk back.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(newestFirst) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var message domain.ChatMessage
				if err := json.Unmarshal(value, &message); err != nil {
					return fmt.Errorf("decoding message: %w", err)
				}
				newestFirst = append(newestFirst, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lo.Reverse(newestFirst), nil
}
