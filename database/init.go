package database

import (
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"learnhub/database/models"
)

// Persistent keys inside the "local" bucket.
const (
	AssignmentsKey   = "slh-assignments"
	ProgressKey      = "slh-progress"
	ExtraSessionsKey = "extra_sessions"
	BaseSessionsKey  = "base_sessions"
)

var Buckets = map[string][]byte{
	"local":   []byte("Local"),
	"session": []byte("Session"),
}

// Init opens (or creates) the DB, drops any session values left by a previous run
// and seeds the base calendar sessions when they are missing.
func Init(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(Buckets["session"]); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		for _, bucket := range Buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}

	store := &Store{db: db, hub: NewHub(), root: true}
	store.origin = newSessionID()
	store.session = store.origin

	if !Exists(store, Buckets["local"], BaseSessionsKey) {
		log.Info("🌱 Seeding calendar sessions...")
		if err := Save(store, Buckets["local"], BaseSessionsKey, seedSessions()); err != nil {
			log.Warnf("seeding base sessions: %v", err)
		}
	}

	log.Infof("✅ Database ready at %s", path)
	return store, nil
}

func seedSessions() []models.Session {
	now := time.Now()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }
	return []models.Session{
		{Date: day(1), Time: "4:00 PM", Subject: "Algebra Review", Tutor: "Ms. Rivera", Location: "Online"},
		{Date: day(3), Time: "10:30 AM", Subject: "Essay Workshop", Tutor: "Mr. Chen", Location: "Library Room 2"},
		{Date: day(8), Time: "2:00 PM", Subject: "Lab Prep", Tutor: "Dr. Okafor", Location: "Science Block"},
	}
}
