// Package reports computes compliance metrics for the supervisor view.
package reports

import (
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"github.com/shopspring/decimal"
)

type DayStatus string

const (
	StatusCompliant DayStatus = "Compliant"
	StatusMissing   DayStatus = "Missing"
)

type Totals struct {
	PatientsSeen     int             `json:"patients_seen"`
	ReviewsCollected int             `json:"reviews_collected"`
	CashCollected    decimal.Decimal `json:"cash_collected"`
}

// AdherenceReport is the per-(center, day) status grid plus aggregates over
// an inclusive date window.
type AdherenceReport struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Days    []string `json:"days"`
	Centers []string `json:"centers"`

	// Statuses is center -> day (YYYY-MM-DD) -> status.
	Statuses map[string]map[string]DayStatus `json:"statuses"`

	CompliantCount int     `json:"compliant_count"`
	MissingCount   int     `json:"missing_count"`
	AdherenceRate  float64 `json:"adherence_rate"`

	Totals Totals `json:"totals"`
}

// WindowEndingAt returns the inclusive [from, to] range covering the last
// `days` calendar days in loc, ending on now's day. The window is anchored
// to now at query time, never at data-load time.
func WindowEndingAt(days int, now time.Time, loc *time.Location) (time.Time, time.Time) {
	n := now.In(loc)
	to := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	if days < 1 {
		days = 1
	}
	from := to.AddDate(0, 0, -(days - 1))
	return from, to
}

// ComputeAdherence marks every (center, day) pair Compliant when at least one
// log entry's derived calendar day matches, Missing otherwise. Duplicate
// submission ids (a retried append that actually landed twice) count once.
func ComputeAdherence(centers []string, from, to time.Time, logs []models.DailyLog, loc *time.Location) AdherenceReport {
	days := enumerateDays(from, to, loc)

	cleanCenters := make([]string, 0, len(centers))
	for _, c := range centers {
		c = strings.TrimSpace(c)
		if c != "" {
			cleanCenters = append(cleanCenters, c)
		}
	}

	report := AdherenceReport{
		Days:     days,
		Centers:  cleanCenters,
		Statuses: make(map[string]map[string]DayStatus, len(cleanCenters)),
		Totals:   Totals{CashCollected: decimal.Zero},
	}
	if len(days) > 0 {
		report.From = days[0]
		report.To = days[len(days)-1]
	}

	inWindow := make(map[string]bool, len(days))
	for _, d := range days {
		inWindow[d] = true
	}

	seenSubmissions := make(map[string]bool)
	present := make(map[string]map[string]bool, len(cleanCenters))

	for _, log := range logs {
		if log.SubmissionId != "" {
			if seenSubmissions[log.SubmissionId] {
				continue
			}
			seenSubmissions[log.SubmissionId] = true
		}

		day := log.Day(loc)
		if !inWindow[day] {
			continue
		}

		center := strings.TrimSpace(log.CenterName)
		if present[center] == nil {
			present[center] = make(map[string]bool)
		}
		present[center][day] = true

		report.Totals.PatientsSeen += log.PatientsSeen
		report.Totals.ReviewsCollected += log.ReviewsCollected
		report.Totals.CashCollected = report.Totals.CashCollected.Add(log.CashCollected)
	}

	for _, center := range cleanCenters {
		row := make(map[string]DayStatus, len(days))
		for _, day := range days {
			if present[center][day] {
				row[day] = StatusCompliant
				report.CompliantCount++
			} else {
				row[day] = StatusMissing
				report.MissingCount++
			}
		}
		report.Statuses[center] = row
	}

	denom := len(cleanCenters) * len(days)
	if denom > 0 {
		report.AdherenceRate = float64(report.CompliantCount) / float64(denom)
	}
	return report
}

func enumerateDays(from, to time.Time, loc *time.Location) []string {
	f := from.In(loc)
	t := to.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}
