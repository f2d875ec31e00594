package models

import (
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
)

const (
	ColRemCenterName = "Center_Name"
	ColRemType       = "Reminder_Type"
	ColRemDueDate    = "Due_Date"
	ColRemRecordedAt = "Recorded_At"
)

func reminderColumns() []string {
	return []string{ColRemCenterName, ColRemType, ColRemDueDate, ColRemRecordedAt}
}

const (
	ReminderAMCRenewal     = "AMC_Renewal"
	ReminderLicenseRenewal = "License_Renewal"
	ReminderCalibration    = "Calibration"
)

func ValidReminderType(t string) bool {
	switch t {
	case ReminderAMCRenewal, ReminderLicenseRenewal, ReminderCalibration:
		return true
	}
	return false
}

// Reminder is append-only: the current due date for a (center, type) pair is
// the most recent entry by append order, not an explicit version.
type Reminder struct {
	CenterName   string
	ReminderType string
	DueDate      string
	RecordedAt   time.Time
}

func (r Reminder) Row() []interface{} {
	return []interface{}{
		r.CenterName,
		r.ReminderType,
		r.DueDate,
		r.RecordedAt.Format("2006-01-02 15:04:05"),
	}
}

func ReminderFromRecord(rec sheetstore.Record, loc *time.Location) Reminder {
	var r Reminder
	r.CenterName, _ = rec.Get(ColRemCenterName)
	r.ReminderType, _ = rec.Get(ColRemType)
	r.DueDate, _ = rec.Get(ColRemDueDate)
	if v, ok := rec.Get(ColRemRecordedAt); ok {
		r.RecordedAt = ParseTimestamp(v, loc)
	}
	return r
}

// CurrentReminders folds the append log down to the latest entry per
// (center, type). Later rows win purely by position.
func CurrentReminders(recs []sheetstore.Record, loc *time.Location) map[string]Reminder {
	current := make(map[string]Reminder)
	for _, rec := range recs {
		r := ReminderFromRecord(rec, loc)
		if r.CenterName == "" || r.ReminderType == "" {
			continue
		}
		current[r.CenterName+"|"+r.ReminderType] = r
	}
	return current
}

// DueWithin filters current reminders to those whose due date falls inside
// [today, today+days] in loc. Unparseable due dates are skipped.
func DueWithin(current map[string]Reminder, days int, now time.Time, loc *time.Location) []Reminder {
	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	cutoff := today.AddDate(0, 0, days)

	var due []Reminder
	for _, r := range current {
		d := ParseTimestamp(r.DueDate, loc)
		if d.IsZero() {
			continue
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		if !day.Before(today) && !day.After(cutoff) {
			due = append(due, r)
		}
	}
	return due
}
