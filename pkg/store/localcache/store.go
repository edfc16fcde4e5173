package localcache

import (
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is the locally persisted key/value cache the auth layer keeps
// session material in. Keys are plain strings; values are opaque.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	// DeleteMatching removes every key whose name contains at least one
	// of the given substrings and returns the number of keys removed.
	DeleteMatching(substrings ...string) (int, error)
	Close() error
}

type badgerStore struct {
	db *badger.DB
}

type Settings struct {
	// Dir is the on-disk location of the cache. Empty means in-memory.
	Dir string
}

func NewStore(settings Settings) (Store, error) {
	opts := badger.DefaultOptions(settings.Dir).WithLogger(nil)
	if settings.Dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *badgerStore) Set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *badgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *badgerStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate keys: %w", err)
	}
	return keys, nil
}

func (s *badgerStore) DeleteMatching(substrings ...string) (int, error) {
	keys, err := s.Keys()
	if err != nil {
		return 0, err
	}

	removed := 0
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if !containsAny(key, substrings) {
				continue
			}
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to delete matching keys: %w", err)
	}
	return removed, nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

func containsAny(key string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(key, sub) {
			return true
		}
	}
	return false
}
