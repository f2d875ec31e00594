package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logOn(center string, day time.Time, submissionId string) models.DailyLog {
	return models.DailyLog{
		Timestamp:     day.Add(18 * time.Hour),
		CenterName:    center,
		PatientsSeen:  10,
		CashCollected: decimal.NewFromInt(100),
		SubmissionId:  submissionId,
	}
}

func TestWindowEndingAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	from, to := WindowEndingAt(7, now, time.UTC)
	assert.Equal(t, "2026-08-26", from.Format("2006-01-02"))
	assert.Equal(t, "2026-09-01", to.Format("2006-01-02"))

	// A degenerate request still yields a one-day window.
	from, to = WindowEndingAt(0, now, time.UTC)
	assert.Equal(t, to, from)
}

func TestStatusGridCoversEveryCenterDayPair(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	centers := []string{"Smile Dental", "City Clinic"}

	logs := []models.DailyLog{
		logOn("Smile Dental", time.Date(2026, 8, 30, 0, 0, 0, 0, loc), "s1"),
		logOn("Smile Dental", time.Date(2026, 9, 1, 0, 0, 0, 0, loc), "s2"),
		logOn("City Clinic", time.Date(2026, 8, 31, 0, 0, 0, 0, loc), "s3"),
	}

	report := ComputeAdherence(centers, from, to, logs, loc)

	require.Len(t, report.Days, 3)
	assert.Equal(t, "2026-08-30", report.From)
	assert.Equal(t, "2026-09-01", report.To)

	// Every pair is accounted for exactly once.
	assert.Equal(t, len(centers)*len(report.Days), report.CompliantCount+report.MissingCount)
	assert.Equal(t, 3, report.CompliantCount)
	assert.Equal(t, 3, report.MissingCount)
	assert.InDelta(t, 0.5, report.AdherenceRate, 1e-9)

	assert.Equal(t, StatusCompliant, report.Statuses["Smile Dental"]["2026-08-30"])
	assert.Equal(t, StatusMissing, report.Statuses["Smile Dental"]["2026-08-31"])
	assert.Equal(t, StatusCompliant, report.Statuses["City Clinic"]["2026-08-31"])
}

func TestZeroCentersYieldsZeroRateNotPanic(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	report := ComputeAdherence(nil, from, to, nil, loc)
	assert.Zero(t, report.AdherenceRate)
	assert.Zero(t, report.CompliantCount)
	assert.Zero(t, report.MissingCount)

	// Blank center names are dropped, not counted into the denominator.
	report = ComputeAdherence([]string{"  ", ""}, from, to, nil, loc)
	assert.Empty(t, report.Centers)
	assert.Zero(t, report.AdherenceRate)
}

func TestDuplicateSubmissionsCountOnce(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	// The same submission landed twice after a retried append.
	logs := []models.DailyLog{
		logOn("Smile Dental", day, "dup-1"),
		logOn("Smile Dental", day, "dup-1"),
	}

	report := ComputeAdherence([]string{"Smile Dental"}, day, day, logs, loc)
	assert.Equal(t, 1, report.CompliantCount)
	assert.Equal(t, 10, report.Totals.PatientsSeen)
	assert.True(t, report.Totals.CashCollected.Equal(decimal.NewFromInt(100)))
}

func TestLogsOutsideWindowExcludedFromTotals(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	logs := []models.DailyLog{
		logOn("Smile Dental", time.Date(2026, 8, 30, 0, 0, 0, 0, loc), "old"),
		logOn("Smile Dental", time.Date(2026, 9, 1, 0, 0, 0, 0, loc), "new"),
		// Zero-time logs come from unparseable timestamps; they never match.
		{CenterName: "Smile Dental", SubmissionId: "bad", CashCollected: decimal.Zero},
	}

	report := ComputeAdherence([]string{"Smile Dental"}, from, to, logs, loc)
	assert.Equal(t, 1, report.CompliantCount)
	assert.Equal(t, 10, report.Totals.PatientsSeen)
	assert.True(t, report.Totals.CashCollected.Equal(decimal.NewFromInt(100)))
}

func TestUnknownCenterLogsIgnoredInGrid(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	logs := []models.DailyLog{logOn("Ghost Clinic", day, "g1")}
	report := ComputeAdherence([]string{"Smile Dental"}, day, day, logs, loc)

	assert.Equal(t, StatusMissing, report.Statuses["Smile Dental"]["2026-09-01"])
	assert.NotContains(t, report.Statuses, "Ghost Clinic")
}

func TestExportAdherenceXLSX(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	report := ComputeAdherence([]string{"Smile Dental"}, day, day, []models.DailyLog{logOn("Smile Dental", day, "s1")}, loc)

	data, err := ExportAdherenceXLSX(report)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx is a zip container.
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}
