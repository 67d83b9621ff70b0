package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stockchat/internal/core/domain"

	"github.com/dgraph-io/badger/v4"
)

// Users persists accounts keyed by lower-cased name, which makes the
// uniqueness check a plain key lookup.
type Users struct {
	db *badger.DB
}

func NewUsers(db *badger.DB) *Users {
	return &Users{db: db}
}

func userKey(name string) []byte {
	return []byte("user:" + strings.ToLower(name))
}

func (s *Users) CreateUser(_ context.Context, user domain.User) error {
	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Name)
		_, err := txn.Get(key)
		if err == nil {
			return domain.ErrUserExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

func (s *Users) GetUserByName(_ context.Context, name string) (domain.User, error) {
	var user domain.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &user)
		})
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
