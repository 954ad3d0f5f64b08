package calendar

import (
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"learnhub/database/models"
	"learnhub/helper"
)

const (
	ProdID        = "-//Student Learning Hub//EN"
	EventDuration = time.Hour
	stampLayout   = "20060102T150405Z"
)

// Span returns the start and end of a session, interpreted in loc.
func Span(ev models.Session, loc *time.Location) (time.Time, time.Time, error) {
	start, err := helper.ParseSessionStart(ev.Date, ev.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "session %q", ev.Subject)
	}
	return start, start.Add(EventDuration), nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// ICS renders a single-event VCALENDAR payload. Lines are CRLF terminated
// and folded at 75 octets.
func ICS(ev models.Session, loc *time.Location, now time.Time) (string, error) {
	start, end, err := Span(ev, loc)
	if err != nil {
		return "", err
	}
	location := ev.Location
	if location == "" {
		location = "Online"
	}
	cal := ics.NewCalendar()
	cal.SetProductId(ProdID)
	event := cal.AddEvent(uuid.NewString())
	event.SetDtStampTime(now)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(ev.Subject)
	event.SetDescription("Tutor: " + ev.Tutor)
	event.SetLocation(location)
	return cal.Serialize(ics.WithNewLineWindows), nil
}

// Filename is the download name for a session's .ics file.
func Filename(ev models.Session) string {
	return helper.NormalizeFilename(ev.Subject, ".ics")
}

// GoogleLink is a calendar.google.com template link prefilled with the session.
func GoogleLink(ev models.Session, loc *time.Location) (string, error) {
	start, end, err := Span(ev, loc)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Subject)
	q.Set("dates", stamp(start)+"/"+stamp(end))
	q.Set("details", "Tutor: "+ev.Tutor)
	return "https://calendar.google.com/calendar/render?" + q.Encode(), nil
}
