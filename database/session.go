package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.etcd.io/bbolt"
)

// newSessionID returns 32 random bytes as 64 hex characters.
func newSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// GenerateSession returns a fresh browsing-context id.
func GenerateSession() string {
	return newSessionID()
}

func sessionKey(s *Store, name string) string {
	return s.session + ":" + name
}

// SetSessionValue stores a value that lives only as long as this context's session.
func SetSessionValue(s *Store, name, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(Buckets["session"])
		if err != nil {
			return err
		}
		return b.Put([]byte(sessionKey(s, name)), []byte(value))
	})
}

func GetSessionValue(s *Store, name string) (string, bool) {
	var value string
	var found bool
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Buckets["session"])
		if b == nil {
			return fmt.Errorf("sessions bucket not found")
		}
		if v := b.Get([]byte(sessionKey(s, name))); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	return value, found
}

// EndSession clears every session value of this context.
func EndSession(s *Store) error {
	return DeletePrefix(s, Buckets["session"], s.session+":")
}

// PreviewFontKey names the session value holding a previewed document's font size.
func PreviewFontKey(href string) string { return "preview-font-" + href }

// PreviewVideoKey names the session value holding a previewed video's resume time.
func PreviewVideoKey(href string) string { return "preview-video-" + href }
