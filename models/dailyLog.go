package models

import (
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"github.com/shopspring/decimal"
)

const (
	ColLogTimestamp    = "Timestamp"
	ColLogUsername     = "Username"
	ColLogCenterName   = "Center_Name"
	ColLogBackupDone   = "Backup_Done"
	ColLogShutdown     = "Shutdown_Followed"
	ColLogPatients     = "Patients_Seen"
	ColLogReviews      = "Reviews_Collected"
	ColLogNotes        = "Notes"
	ColLogCash         = "Cash_Collected"
	ColLogSubmissionId = "Submission_Id"
)

func dailyLogColumns() []string {
	return []string{
		ColLogTimestamp, ColLogUsername, ColLogCenterName,
		ColLogBackupDone, ColLogShutdown, ColLogPatients,
		ColLogReviews, ColLogNotes, ColLogCash, ColLogSubmissionId,
	}
}

// Answer values for the yes/no points. ShutdownNA is recorded when the
// shutdown confirmation step was skipped because tomorrow is not a closure
// day; Yes/No only appear when the step was actually presented.
const (
	AnswerYes        = "Yes"
	AnswerNo         = "No"
	ShutdownNA       = "N/A"
	NotesMaxLen      = 250
	PatientsSeenMax  = 200
	ReviewsCollected = 25
)

// DailyLog is one append-only daily submission for a center. The timestamp
// is server-assigned at write time; its calendar day in the report time zone
// is what adherence is reconciled against.
type DailyLog struct {
	Timestamp        time.Time
	Username         string
	CenterName       string
	BackupDone       string
	ShutdownFollowed string
	PatientsSeen     int
	ReviewsCollected int
	Notes            string
	CashCollected    decimal.Decimal
	SubmissionId     string
}

// Day renders the log's calendar day in loc as YYYY-MM-DD.
func (d DailyLog) Day(loc *time.Location) string {
	return d.Timestamp.In(loc).Format("2006-01-02")
}

func (d DailyLog) Row() []interface{} {
	return []interface{}{
		d.Timestamp.Format("2006-01-02 15:04:05"),
		d.Username,
		d.CenterName,
		d.BackupDone,
		d.ShutdownFollowed,
		d.PatientsSeen,
		d.ReviewsCollected,
		d.Notes,
		d.CashCollected.String(),
		d.SubmissionId,
	}
}

// DailyLogFromRecord parses one row. Missing or unparseable cells fall back
// to zero values; rows from older revisions simply lack the trailing columns.
func DailyLogFromRecord(rec sheetstore.Record, loc *time.Location) DailyLog {
	d := DailyLog{CashCollected: decimal.Zero}

	if v, ok := rec.Get(ColLogTimestamp); ok {
		d.Timestamp = ParseTimestamp(v, loc)
	}
	d.Username, _ = rec.Get(ColLogUsername)
	d.CenterName, _ = rec.Get(ColLogCenterName)
	d.BackupDone, _ = rec.Get(ColLogBackupDone)
	d.ShutdownFollowed, _ = rec.Get(ColLogShutdown)
	d.PatientsSeen = looseInt(rec, ColLogPatients)
	d.ReviewsCollected = looseInt(rec, ColLogReviews)
	d.Notes, _ = rec.Get(ColLogNotes)
	if v, ok := rec.Get(ColLogCash); ok && v != "" {
		if dec, err := decimal.NewFromString(v); err == nil {
			d.CashCollected = dec
		}
	}
	d.SubmissionId, _ = rec.Get(ColLogSubmissionId)
	return d
}

func DailyLogsFromRecords(recs []sheetstore.Record, loc *time.Location) []DailyLog {
	logs := make([]DailyLog, 0, len(recs))
	for _, rec := range recs {
		logs = append(logs, DailyLogFromRecord(rec, loc))
	}
	return logs
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02-01-2006 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTimestamp tries every layout the sheet has been observed to carry.
// Unparseable values yield the zero time, which no report day ever matches.
func ParseTimestamp(v string, loc *time.Location) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func looseInt(rec sheetstore.Record, col string) int {
	v, ok := rec.Get(col)
	if !ok || v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
