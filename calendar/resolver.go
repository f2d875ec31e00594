// Package calendar answers "is this center closed tomorrow?" against the
// Holidays worksheet without assuming a single date format.
package calendar

import (
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/models"
)

// dateLayouts are every format the Holidays sheet is known to carry.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
}

// Resolver computes closure lookups relative to a clock and a time zone.
// Both are injected so "tomorrow" is testable and never pinned to the
// server's zone.
type Resolver struct {
	Now      func() time.Time
	Location *time.Location
}

func NewResolver(loc *time.Location) Resolver {
	return Resolver{Now: time.Now, Location: loc}
}

// IsClosedTomorrow reports whether any holiday row for the center matches
// tomorrow's date in any supported rendering. Absent or malformed holiday
// data yields false; a missing calendar is not an error.
func (r Resolver) IsClosedTomorrow(holidays []models.Holiday, centerName string) bool {
	tomorrow := r.today().AddDate(0, 0, 1)
	return r.isClosedOn(holidays, centerName, tomorrow)
}

// IsClosedOn reports whether the center is closed on the given day.
func (r Resolver) IsClosedOn(holidays []models.Holiday, centerName string, day time.Time) bool {
	d := day.In(r.Location)
	return r.isClosedOn(holidays, centerName, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.Location))
}

func (r Resolver) isClosedOn(holidays []models.Holiday, centerName string, day time.Time) bool {
	centerName = strings.TrimSpace(centerName)
	if centerName == "" {
		return false
	}

	forms := make([]string, 0, len(dateLayouts))
	for _, layout := range dateLayouts {
		forms = append(forms, day.Format(layout))
	}

	for _, h := range holidays {
		if strings.TrimSpace(h.CenterName) != centerName {
			continue
		}
		date := strings.TrimSpace(h.Date)
		for _, form := range forms {
			if date == form {
				return true
			}
		}
	}
	return false
}

func (r Resolver) today() time.Time {
	now := r.Now().In(r.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.Location)
}
