package database

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"learnhub/database/models"
	"learnhub/helper"
)

var ErrNotFound = errors.New("not found")

// nowFunc is swapped in tests.
var nowFunc = time.Now

// LoadAssignments returns the persisted collection. Missing or malformed data yields an empty one.
func LoadAssignments(s *Store) []models.Assignment {
	var out []models.Assignment
	err := s.db.View(func(tx *bbolt.Tx) error {
		out = decodeAssignments(tx.Bucket(Buckets["local"]))
		return nil
	})
	if err != nil {
		log.Warnf("loading assignments: %v", err)
		return []models.Assignment{}
	}
	return out
}

// SaveAssignments overwrites the whole collection. The last writer wins.
func SaveAssignments(s *Store, records []models.Assignment) error {
	if records == nil {
		records = []models.Assignment{}
	}
	return Save(s, Buckets["local"], AssignmentsKey, records)
}

func decodeAssignments(b *bbolt.Bucket) []models.Assignment {
	out := []models.Assignment{}
	if b == nil {
		return out
	}
	raw := b.Get([]byte(AssignmentsKey))
	if raw == nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warnf("⚠️ malformed %s, treating as empty: %v", AssignmentsKey, err)
		return []models.Assignment{}
	}
	return out
}

// mutateAssignments runs load-mutate-save in one write transaction.
// The updater reports whether it changed anything; unchanged collections are not written.
func mutateAssignments(s *Store, updater func([]models.Assignment) ([]models.Assignment, bool)) error {
	changed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(Buckets["local"])
		if err != nil {
			return err
		}
		records, ok := updater(decodeAssignments(b))
		if !ok {
			return nil
		}
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		changed = true
		return b.Put([]byte(AssignmentsKey), data)
	})
	if err != nil {
		return err
	}
	if changed {
		s.notify(Buckets["local"], AssignmentsKey)
	}
	return nil
}

// FindByIdentity returns the index of the record with the given title and href, or -1.
func FindByIdentity(records []models.Assignment, title, href string) int {
	for i, a := range records {
		if a.SameResource(title, href) {
			return i
		}
	}
	return -1
}

func findByID(records []models.Assignment, id string) int {
	if id == "" {
		return -1
	}
	for i, a := range records {
		if a.Id == id {
			return i
		}
	}
	return -1
}

// IsAssigned reports whether an assigned record exists for the identity.
func IsAssigned(records []models.Assignment, title, href string) bool {
	idx := FindByIdentity(records, title, href)
	return idx != -1 && records[idx].Assigned
}

// Assigned filters the collection down to assigned records, keeping order.
func Assigned(records []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, 0, len(records))
	for _, a := range records {
		if a.Assigned {
			out = append(out, a)
		}
	}
	return out
}

// NewAssignmentID returns "<unix millis>-<6 base36 chars>".
func NewAssignmentID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			panic(err)
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return strconv.FormatInt(nowFunc().UnixMilli(), 10) + "-" + string(suffix)
}

// UpsertAssigned attaches the resource identified by base.Title/base.Href to the dashboard
// and returns its id. A known identity is updated in place: marked assigned, assignedAt
// refreshed, and base.FontSize/base.VideoTime merged when set. Repeating the call on an
// already assigned identity with nothing to merge writes nothing.
func UpsertAssigned(s *Store, base models.Assignment) (string, error) {
	var id string
	err := mutateAssignments(s, func(records []models.Assignment) ([]models.Assignment, bool) {
		now := nowFunc().UTC()
		if idx := FindByIdentity(records, base.Title, base.Href); idx != -1 {
			a := &records[idx]
			if a.Id == "" {
				a.Id = NewAssignmentID()
			}
			id = a.Id
			if a.Assigned && base.FontSize == nil && base.VideoTime == nil {
				return records, false
			}
			a.Assigned = true
			a.AssignedAt = &now
			if base.FontSize != nil {
				a.FontSize = helper.Ptr(*base.FontSize)
			}
			if base.VideoTime != nil {
				a.VideoTime = helper.Ptr(*base.VideoTime)
			}
			return records, true
		}

		id = NewAssignmentID()
		records = append(records, models.Assignment{
			Id:         id,
			Title:      base.Title,
			Href:       base.Href,
			Progress:   0,
			Assigned:   true,
			AssignedAt: &now,
			Notes:      "",
			FontSize:   base.FontSize,
			VideoTime:  base.VideoTime,
		})
		return records, true
	})
	if err != nil {
		return "", errors.Wrapf(err, "upserting %q", base.Title)
	}
	return id, nil
}

// UpdateAssignment applies fn to the record with id and saves. It reports false, without
// error or write, when the id is gone (e.g. removed from another tab).
func UpdateAssignment(s *Store, id string, fn func(*models.Assignment)) (bool, error) {
	found := false
	err := mutateAssignments(s, func(records []models.Assignment) ([]models.Assignment, bool) {
		idx := findByID(records, id)
		if idx == -1 {
			return records, false
		}
		found = true
		fn(&records[idx])
		return records, true
	})
	if err != nil {
		return false, errors.Wrapf(err, "updating assignment %s", id)
	}
	if !found {
		log.Debugf("assignment %s not found, skipping update", id)
	}
	return found, nil
}

func GetAssignment(s *Store, id string) (models.Assignment, error) {
	records := LoadAssignments(s)
	if idx := findByID(records, id); idx != -1 {
		return records[idx], nil
	}
	return models.Assignment{}, ErrNotFound
}

func SetNotes(s *Store, id, notes string) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) { a.Notes = notes })
}

func SetFontSize(s *Store, id string, size int) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) { a.FontSize = &size })
}

func SetProgress(s *Store, id string, progress int) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) { a.Progress = helper.Clamp(progress, 0, 100) })
}

// ChangeProgress adds delta to the record's progress, clamped to [0,100].
func ChangeProgress(s *Store, id string, delta int) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) {
		a.Progress = helper.Clamp(a.Progress+delta, 0, 100)
	})
}

// ToggleComplete flips a record between done (100) and not started (0).
// Any progress short of 100 becomes 100. It returns the new progress.
func ToggleComplete(s *Store, id string) (int, bool, error) {
	var progress int
	found, err := UpdateAssignment(s, id, func(a *models.Assignment) {
		if a.Progress == 100 {
			a.Progress = 0
		} else {
			a.Progress = 100
		}
		progress = a.Progress
	})
	return progress, found, err
}

// RemoveAssignment drops the record with id. Other records are written back untouched.
func RemoveAssignment(s *Store, id string) error {
	return mutateAssignments(s, func(records []models.Assignment) ([]models.Assignment, bool) {
		kept := make([]models.Assignment, 0, len(records))
		for _, a := range records {
			if a.Id != id {
				kept = append(kept, a)
			}
		}
		return kept, len(kept) != len(records)
	})
}
