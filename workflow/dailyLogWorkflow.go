package workflow

import (
	"context"
	"errors"
	"strconv"

	"bitbucket.org/mmdatafocus/clinicops_backend/calendar"
	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"bitbucket.org/mmdatafocus/clinicops_backend/wizard"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("no active login session")

// NewDailyLogDefinition builds the guided daily-log flow for one center. The
// shutdown confirmation step is only presented when the calendar says
// tomorrow is a closure day for this center; otherwise N/A is recorded at
// submit time.
func NewDailyLogDefinition(deps Deps, centerName string) *wizard.Definition {
	resolver := calendar.Resolver{Now: deps.Now, Location: deps.Location}

	closedTomorrow := func() bool {
		recs, _, err := deps.Cache.Table(context.Background(), models.TableHolidays)
		if err != nil {
			// No holiday data is not an error; the step simply stays hidden.
			return false
		}
		return resolver.IsClosedTomorrow(models.HolidaysFromRecords(recs), centerName)
	}

	return &wizard.Definition{
		Name: "daily_log",
		Steps: []wizard.Step{
			{
				Name: "backup",
				Fields: []wizard.Field{
					{Name: models.ColLogBackupDone, Kind: wizard.FieldYesNo},
				},
			},
			{
				Name: "server_shutdown",
				Fields: []wizard.Field{
					{Name: models.ColLogShutdown, Kind: wizard.FieldYesNo},
				},
				SkipWhen: func() bool { return !closedTomorrow() },
			},
			{
				Name: "patients",
				Fields: []wizard.Field{
					{Name: models.ColLogPatients, Kind: wizard.FieldInt, Rule: "gte=0,lte=200"},
				},
			},
			{
				Name: "reviews",
				Fields: []wizard.Field{
					{Name: models.ColLogReviews, Kind: wizard.FieldInt, Rule: "gte=0,lte=25"},
				},
			},
			{
				Name: "cash",
				Fields: []wizard.Field{
					{Name: models.ColLogCash, Kind: wizard.FieldDecimal},
				},
			},
			{
				Name: "notes",
				Fields: []wizard.Field{
					{Name: models.ColLogNotes, Kind: wizard.FieldText, Rule: "max=250", Optional: true},
				},
			},
		},
	}
}

// ProcessDailyLogSubmission appends one daily log row and invalidates the
// cache so the next read observes it. The timestamp is server-assigned here;
// the submission id makes a retried-but-actually-succeeded append
// deduplicable downstream.
func ProcessDailyLogSubmission(ctx context.Context, deps Deps, answers map[string]string) (*models.DailyLog, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	log := models.DailyLog{
		Timestamp:        deps.Now(),
		Username:         username,
		CenterName:       centerName,
		BackupDone:       answers[models.ColLogBackupDone],
		ShutdownFollowed: answers[models.ColLogShutdown],
		Notes:            answers[models.ColLogNotes],
		CashCollected:    decimal.Zero,
		SubmissionId:     uuid.NewString(),
	}
	if log.ShutdownFollowed == "" {
		log.ShutdownFollowed = models.ShutdownNA
	}
	if v := answers[models.ColLogPatients]; v != "" {
		log.PatientsSeen, _ = strconv.Atoi(v)
	}
	if v := answers[models.ColLogReviews]; v != "" {
		log.ReviewsCollected, _ = strconv.Atoi(v)
	}
	if v := answers[models.ColLogCash]; v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			log.CashCollected = d
		}
	}

	err := deps.Exec.Do(ctx, "AppendRow "+models.TableDailyLogs, func() error {
		return deps.Store.AppendRow(ctx, models.TableDailyLogs, log.Row())
	})
	if err != nil {
		config.LogError(deps.Logger, "dailyLogWorkflow.go", "ProcessDailyLogSubmission", "AppendRow", log.CenterName, err)
		return nil, err
	}

	deps.Cache.Invalidate()

	deps.Logger.WithFields(logrus.Fields{
		"module":        "workflow",
		"center":        log.CenterName,
		"submission_id": log.SubmissionId,
	}).Info("daily log recorded")
	return &log, nil
}
