package models

import (
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
)

const (
	ColSvcLogTimestamp  = "Timestamp"
	ColSvcLogUsername   = "Username"
	ColSvcLogCenterName = "Center_Name"
	ColSvcLogEquipment  = "Equipment"
	ColSvcLogAction     = "Action"
	ColSvcLogNotes      = "Notes"
)

func serviceLogColumns() []string {
	return []string{
		ColSvcLogTimestamp, ColSvcLogUsername, ColSvcLogCenterName,
		ColSvcLogEquipment, ColSvcLogAction, ColSvcLogNotes,
	}
}

// ServiceLog records equipment maintenance performed at a center.
type ServiceLog struct {
	Timestamp  time.Time
	Username   string
	CenterName string
	Equipment  string
	Action     string
	Notes      string
}

func (s ServiceLog) Row() []interface{} {
	return []interface{}{
		s.Timestamp.Format("2006-01-02 15:04:05"),
		s.Username,
		s.CenterName,
		s.Equipment,
		s.Action,
		s.Notes,
	}
}

func ServiceLogFromRecord(rec sheetstore.Record, loc *time.Location) ServiceLog {
	var s ServiceLog
	if v, ok := rec.Get(ColSvcLogTimestamp); ok {
		s.Timestamp = ParseTimestamp(v, loc)
	}
	s.Username, _ = rec.Get(ColSvcLogUsername)
	s.CenterName, _ = rec.Get(ColSvcLogCenterName)
	s.Equipment, _ = rec.Get(ColSvcLogEquipment)
	s.Action, _ = rec.Get(ColSvcLogAction)
	s.Notes, _ = rec.Get(ColSvcLogNotes)
	return s
}

func ServiceLogsFromRecords(recs []sheetstore.Record, loc *time.Location) []ServiceLog {
	logs := make([]ServiceLog, 0, len(recs))
	for _, rec := range recs {
		logs = append(logs, ServiceLogFromRecord(rec, loc))
	}
	return logs
}
