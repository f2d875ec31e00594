package models

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderRecord(center, rtype, due string) sheetstore.Record {
	return sheetstore.Record{
		ColRemCenterName: center,
		ColRemType:       rtype,
		ColRemDueDate:    due,
	}
}

func TestCurrentRemindersLastRowWins(t *testing.T) {
	recs := []sheetstore.Record{
		reminderRecord("Smile Dental", ReminderAMCRenewal, "2026-09-15"),
		reminderRecord("Smile Dental", ReminderLicenseRenewal, "2026-10-01"),
		// The AMC got renewed; a later row supersedes the first.
		reminderRecord("Smile Dental", ReminderAMCRenewal, "2027-09-15"),
		reminderRecord("City Clinic", ReminderAMCRenewal, "2026-09-20"),
	}

	current := CurrentReminders(recs, time.UTC)
	require.Len(t, current, 3)
	assert.Equal(t, "2027-09-15", current["Smile Dental|"+ReminderAMCRenewal].DueDate)
	assert.Equal(t, "2026-09-20", current["City Clinic|"+ReminderAMCRenewal].DueDate)
}

func TestCurrentRemindersSkipsIncompleteRows(t *testing.T) {
	recs := []sheetstore.Record{
		reminderRecord("", ReminderAMCRenewal, "2026-09-15"),
		reminderRecord("Smile Dental", "", "2026-09-15"),
	}
	assert.Empty(t, CurrentReminders(recs, time.UTC))
}

func TestDueWithin(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	current := map[string]Reminder{
		"a": {CenterName: "Smile Dental", ReminderType: ReminderAMCRenewal, DueDate: "2026-09-10"},
		"b": {CenterName: "Smile Dental", ReminderType: ReminderLicenseRenewal, DueDate: "2026-10-20"},
		"c": {CenterName: "Smile Dental", ReminderType: ReminderCalibration, DueDate: "2026-08-30"},
		"d": {CenterName: "City Clinic", ReminderType: ReminderAMCRenewal, DueDate: "15/09/2026"},
		"e": {CenterName: "City Clinic", ReminderType: ReminderCalibration, DueDate: "whenever"},
	}

	due := DueWithin(current, 14, now, time.UTC)
	require.Len(t, due, 2)

	types := make(map[string]string)
	for _, r := range due {
		types[r.CenterName+"|"+r.ReminderType] = r.DueDate
	}
	assert.Equal(t, "2026-09-10", types["Smile Dental|"+ReminderAMCRenewal])
	// Slash-format due dates parse too.
	assert.Equal(t, "15/09/2026", types["City Clinic|"+ReminderAMCRenewal])
}

func TestDueWithinIncludesToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	current := map[string]Reminder{
		"a": {CenterName: "Smile Dental", ReminderType: ReminderAMCRenewal, DueDate: "2026-09-01"},
	}
	assert.Len(t, DueWithin(current, 0, now, time.UTC), 1)
}

func TestValidReminderType(t *testing.T) {
	assert.True(t, ValidReminderType(ReminderAMCRenewal))
	assert.True(t, ValidReminderType(ReminderLicenseRenewal))
	assert.True(t, ValidReminderType(ReminderCalibration))
	assert.False(t, ValidReminderType("Birthday"))
	assert.False(t, ValidReminderType(""))
}
