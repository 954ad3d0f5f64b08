package calendar

import (
	"fmt"
	"time"

	"learnhub/database/models"
	"learnhub/helper"
)

// Cell is one day of the month grid. Day is 0 for padding cells.
type Cell struct {
	Day    int
	Date   string
	Events []Event
}

// Event is a session on a day; Index is its position among that day's sessions.
type Event struct {
	Index   int
	Session models.Session
}

type Month struct {
	Title  string
	Offset int
	Weeks  [][]Cell
}

// BuildMonth lays out the month offset months away from today in Sunday-first
// weeks, padding the first and last week with empty cells.
func BuildMonth(today time.Time, offset int, sessions []models.Session) Month {
	first := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, today.Location())
	year, month := first.Year(), first.Month()

	byDate := make(map[string][]Event)
	for _, s := range sessions {
		byDate[s.Date] = append(byDate[s.Date], Event{Index: len(byDate[s.Date]), Session: s})
	}

	m := Month{Title: fmt.Sprintf("%s %d", month, year), Offset: offset}
	week := make([]Cell, int(first.Weekday()), 7)
	for day := 1; day <= helper.DaysInMonth(year, month); day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		week = append(week, Cell{Day: day, Date: date, Events: byDate[date]})
		if len(week) == 7 {
			m.Weeks = append(m.Weeks, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Cell{})
		}
		m.Weeks = append(m.Weeks, week)
	}
	return m
}

// EventAt finds the index-th session of date, as addressed by the grid.
func EventAt(sessions []models.Session, date string, index int) (models.Session, bool) {
	n := 0
	for _, s := range sessions {
		if s.Date != date {
			continue
		}
		if n == index {
			return s, true
		}
		n++
	}
	return models.Session{}, false
}
