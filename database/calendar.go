package database

import (
	"github.com/pkg/errors"

	"learnhub/database/models"
	"learnhub/helper"
)

// ErrBaseAppointment is returned when removing a session that was not added by the user.
var ErrBaseAppointment = errors.New("this is a base appointment and cannot be removed")

func ListBaseSessions(s *Store) []models.Session {
	out, err := Get[[]models.Session](s, Buckets["local"], BaseSessionsKey)
	if err != nil {
		return []models.Session{}
	}
	return *out
}

// ListExtraSessions returns user-added appointments; unreadable data reads as none.
func ListExtraSessions(s *Store) []models.Session {
	out, err := Get[[]models.Session](s, Buckets["local"], ExtraSessionsKey)
	if err != nil {
		return []models.Session{}
	}
	return *out
}

// AllSessions is base sessions followed by user-added ones.
func AllSessions(s *Store) []models.Session {
	return append(ListBaseSessions(s), ListExtraSessions(s)...)
}

func AddAppointment(s *Store, ev models.Session) error {
	extra := append(ListExtraSessions(s), ev)
	return errors.Wrap(Save(s, Buckets["local"], ExtraSessionsKey, extra), "saving appointment")
}

// RemoveAppointment removes the first user-added session matching date, subject and tutor.
func RemoveAppointment(s *Store, date, subject, tutor string) error {
	extra := ListExtraSessions(s)
	idx := helper.IndexFunc(extra, func(e models.Session) bool {
		return e.Date == date && e.Subject == subject && e.Tutor == tutor
	})
	if idx == -1 {
		return ErrBaseAppointment
	}
	extra = append(extra[:idx], extra[idx+1:]...)
	if len(extra) == 0 {
		return errors.Wrap(Delete(s, Buckets["local"], ExtraSessionsKey), "removing appointment")
	}
	return errors.Wrap(Save(s, Buckets["local"], ExtraSessionsKey, extra), "removing appointment")
}
