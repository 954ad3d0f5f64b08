package dto

import (
	"time"

	"github.com/labstack/gommon/log"

	"learnhub/calendar"
	"learnhub/database/models"
)

type SessionSlot struct {
	Date       string
	Index      int
	Subject    string
	Time       string
	Tutor      string
	Location   string
	GoogleLink string
	ICSName    string
}

func SessionSlotFromModel(s models.Session, index int, loc *time.Location) SessionSlot {
	slot := SessionSlot{
		Date:     s.Date,
		Index:    index,
		Subject:  s.Subject,
		Time:     s.Time,
		Tutor:    s.Tutor,
		Location: s.Location,
		ICSName:  calendar.Filename(s),
	}
	if slot.Location == "" {
		slot.Location = "Not specified"
	}
	link, err := calendar.GoogleLink(s, loc)
	if err != nil {
		log.Warnf("session %q has no usable start: %v", s.Subject, err)
	}
	slot.GoogleLink = link
	return slot
}
