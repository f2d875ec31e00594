package models

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
)

const (
	ColIncTimestamp   = "Timestamp"
	ColIncUsername    = "Username"
	ColIncCenterName  = "Center_Name"
	ColIncCategory    = "Category"
	ColIncSubcategory = "Subcategory"
	ColIncDescription = "Description"
	ColIncSeverity    = "Severity"
	ColIncStatus      = "Status"
)

func incidentColumns() []string {
	return []string{
		ColIncTimestamp, ColIncUsername, ColIncCenterName,
		ColIncCategory, ColIncSubcategory, ColIncDescription,
		ColIncSeverity, ColIncStatus,
	}
}

const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

const IncidentStatusOpen = "Open"

// IncidentTaxonomy is the fixed category -> subcategory hierarchy. Status is
// mutated externally after creation; this service only ever appends Open.
var IncidentTaxonomy = map[string][]string{
	"Equipment": {"X-Ray", "Dental Chair", "Compressor", "Sterilizer", "Other"},
	"IT":        {"Server", "Network", "Software", "Other"},
	"Facility":  {"Power", "Water", "Structural", "Other"},
	"Staff":     {"Absence", "Conduct", "Other"},
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func ValidateTaxonomy(category, subcategory string) error {
	subs, ok := IncidentTaxonomy[category]
	if !ok {
		return fmt.Errorf("unknown incident category %q", category)
	}
	for _, s := range subs {
		if s == subcategory {
			return nil
		}
	}
	return fmt.Errorf("unknown subcategory %q under %q", subcategory, category)
}

type Incident struct {
	Timestamp   time.Time
	Username    string
	CenterName  string
	Category    string
	Subcategory string
	Description string
	Severity    string
	Status      string
}

func (i Incident) Row() []interface{} {
	return []interface{}{
		i.Timestamp.Format("2006-01-02 15:04:05"),
		i.Username,
		i.CenterName,
		i.Category,
		i.Subcategory,
		i.Description,
		i.Severity,
		i.Status,
	}
}

func IncidentFromRecord(rec sheetstore.Record, loc *time.Location) Incident {
	var i Incident
	if v, ok := rec.Get(ColIncTimestamp); ok {
		i.Timestamp = ParseTimestamp(v, loc)
	}
	i.Username, _ = rec.Get(ColIncUsername)
	i.CenterName, _ = rec.Get(ColIncCenterName)
	i.Category, _ = rec.Get(ColIncCategory)
	i.Subcategory, _ = rec.Get(ColIncSubcategory)
	i.Description, _ = rec.Get(ColIncDescription)
	i.Severity, _ = rec.Get(ColIncSeverity)
	i.Status, _ = rec.Get(ColIncStatus)
	return i
}
