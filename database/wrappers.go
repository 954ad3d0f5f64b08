package database

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// Store is one browsing context's handle on the shared database.
// Handles made with Tab share the bbolt file and the change hub.
type Store struct {
	db      *bbolt.DB
	hub     *Hub
	origin  string
	session string
	root    bool
}

// Tab returns a handle for the browsing context id. An empty id generates one.
func (s *Store) Tab(id string) *Store {
	if id == "" {
		id = newSessionID()
	}
	return &Store{db: s.db, hub: s.hub, origin: id, session: id}
}

// Origin identifies the browsing context that owns this handle.
func (s *Store) Origin() string { return s.origin }

// Close closes the database when called on the handle returned by Init.
// On a tab handle it only ends the tab's session.
func (s *Store) Close() error {
	if !s.root {
		return EndSession(s)
	}
	return s.db.Close()
}

func Save[T any](s *Store, bucket []byte, key string, value T) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return err
	}
	s.notify(bucket, key)
	return nil
}

func Get[T any](s *Store, bucket []byte, key string) (*T, error) {
	var out T
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucket)
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Exists reports whether key holds a value.
func Exists(s *Store, bucket []byte, key string) bool {
	var found bool
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found
}

// Delete removes key and notifies like Save.
func Delete(s *Store, bucket []byte, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucket)
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return err
	}
	s.notify(bucket, key)
	return nil
}

// DeletePrefix removes every key starting with prefix. It does not notify.
func DeletePrefix(s *Store, bucket []byte, prefix string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		p := []byte(prefix)
		c := b.Cursor()
		var keys [][]byte
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// notify publishes changes to the persistent bucket only; session values are tab-local.
func (s *Store) notify(bucket []byte, key string) {
	if !bytes.Equal(bucket, Buckets["local"]) {
		return
	}
	s.hub.publish(Change{Key: key, Origin: s.origin})
}
