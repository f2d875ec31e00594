package models

import (
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
)

const (
	ColHolCenterName = "Center_Name"
	ColHolDate       = "Date"
	ColHolLabel      = "Label"
)

func holidayColumns() []string {
	return []string{ColHolCenterName, ColHolDate, ColHolLabel}
}

// Holiday declares a center closed on a date. The date is kept as the raw
// cell text: the sheet carries more than one format and the calendar
// resolver matches rendered forms rather than forcing a parse here.
type Holiday struct {
	CenterName string
	Date       string
	Label      string
}

func HolidayFromRecord(rec sheetstore.Record) Holiday {
	var h Holiday
	h.CenterName, _ = rec.Get(ColHolCenterName)
	h.Date, _ = rec.Get(ColHolDate)
	h.Label, _ = rec.Get(ColHolLabel)
	return h
}

func HolidaysFromRecords(recs []sheetstore.Record) []Holiday {
	hs := make([]Holiday, 0, len(recs))
	for _, rec := range recs {
		hs = append(hs, HolidayFromRecord(rec))
	}
	return hs
}

func HolidayRow(centerName, date, label string) []interface{} {
	return []interface{}{centerName, date, label}
}
