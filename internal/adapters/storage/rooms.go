package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"stockchat/internal/core/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Rooms persists rooms under "room:{id}" with a "roomname:{name}" index key
// enforcing name uniqueness.
type Rooms struct {
	db *badger.DB
}

func NewRooms(db *badger.DB) *Rooms {
	return &Rooms{db: db}
}

func roomKey(id uuid.UUID) []byte {
	return []byte("room:" + id.String())
}

func roomNameKey(name string) []byte {
	return []byte("roomname:" + strings.ToLower(name))
}

func (s *Rooms) CreateRoom(_ context.Context, room domain.Room) error {
	value, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encoding room: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		nameKey := roomNameKey(room.Name)
		_, err := txn.Get(nameKey)
		if err == nil {
			return domain.ErrRoomExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(nameKey, []byte(room.ID.String())); err != nil {
			return err
		}
		return txn.Set(roomKey(room.ID), value)
	})
}

func (s *Rooms) GetRoom(_ context.Context, id uuid.UUID) (domain.Room, error) {
	var room domain.Room

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &room)
		})
	})
	if err != nil {
		return domain.Room{}, err
	}

	return room, nil
}

func (s *Rooms) ListRooms(_ context.Context) ([]domain.Room, error) {
	var rooms []domain.Room

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte("room:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var room domain.Room
				if err := json.Unmarshal(value, &room); err != nil {
					return fmt.Errorf("decoding room: %w", err)
				}
				rooms = append(rooms, room)
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

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}
