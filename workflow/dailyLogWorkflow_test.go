package workflow

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"bitbucket.org/mmdatafocus/clinicops_backend/wizard"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeps(t *testing.T) (Deps, *sheetstore.MemStore) {
	t.Helper()
	t.Setenv("RETRY_BASE_BACKOFF_MS", "1")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mem := sheetstore.NewMemStore()
	for _, spec := range models.AllTables() {
		require.NoError(t, mem.GetOrCreate(context.Background(), spec))
	}

	exec := sheetstore.NewExecutor(logger)
	cache := sheetstore.NewCache(mem, exec, models.AllTables(), time.Minute, nil)

	return Deps{
		Store:    mem,
		Cache:    cache,
		Exec:     exec,
		Logger:   logger,
		Now:      func() time.Time { return time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	}, mem
}

func sessionContext(username, center string) context.Context {
	ctx := utils.SetUsernameInContext(context.Background(), username)
	return utils.SetCenterNameInContext(ctx, center)
}

func completedAnswers() map[string]string {
	return map[string]string{
		models.ColLogBackupDone: models.AnswerYes,
		models.ColLogPatients:   "12",
		models.ColLogReviews:    "3",
		models.ColLogCash:       "1234.5",
		models.ColLogNotes:      "quiet day",
	}
}

func TestProcessDailyLogSubmissionAppendsAndInvalidates(t *testing.T) {
	deps, _ := newTestDeps(t)
	ctx := sessionContext("mgr1", "Smile Dental")

	// Warm the cache so the append must invalidate it for the row to show.
	_, err := deps.Cache.Load(ctx)
	require.NoError(t, err)

	log, err := ProcessDailyLogSubmission(ctx, deps, completedAnswers())
	require.NoError(t, err)
	assert.Equal(t, "mgr1", log.Username)
	assert.Equal(t, "Smile Dental", log.CenterName)
	assert.Equal(t, models.ShutdownNA, log.ShutdownFollowed, "skipped step records N/A")
	assert.NotEmpty(t, log.SubmissionId)
	assert.Equal(t, "2026-09-01", log.Day(time.UTC), "timestamp is server-assigned")

	recs, status, err := deps.Cache.Table(ctx, models.TableDailyLogs)
	require.NoError(t, err)
	assert.Equal(t, sheetstore.ReadOK, status)
	require.Len(t, recs, 1)
	got := models.DailyLogFromRecord(recs[0], time.UTC)
	assert.Equal(t, 12, got.PatientsSeen)
	assert.Equal(t, log.SubmissionId, got.SubmissionId)
}

func TestProcessDailyLogSubmissionKeepsExplicitShutdownAnswer(t *testing.T) {
	deps, _ := newTestDeps(t)
	ctx := sessionContext("mgr1", "Smile Dental")

	answers := completedAnswers()
	answers[models.ColLogShutdown] = models.AnswerNo

	log, err := ProcessDailyLogSubmission(ctx, deps, answers)
	require.NoError(t, err)
	assert.Equal(t, models.AnswerNo, log.ShutdownFollowed)
}

func TestProcessDailyLogSubmissionRetriesTransientAppend(t *testing.T) {
	deps, mem := newTestDeps(t)
	ctx := sessionContext("mgr1", "Smile Dental")

	mem.AppendErr = &sheetstore.StoreError{
		Kind: sheetstore.KindTransient, Op: "AppendRow", Table: models.TableDailyLogs,
		Err: errors.New("429 too many requests"),
	}

	_, err := ProcessDailyLogSubmission(ctx, deps, completedAnswers())
	require.NoError(t, err, "one transient failure is absorbed by the retry budget")

	recs, _, err := deps.Cache.Table(ctx, models.TableDailyLogs)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestProcessDailyLogSubmissionSurfacesHardFailure(t *testing.T) {
	deps, mem := newTestDeps(t)
	ctx := sessionContext("mgr1", "Smile Dental")

	boom := errors.New("permission denied")
	mem.AppendErr = boom

	_, err := ProcessDailyLogSubmission(ctx, deps, completedAnswers())
	assert.ErrorIs(t, err, boom)

	recs, _, err := deps.Cache.Table(ctx, models.TableDailyLogs)
	require.NoError(t, err)
	assert.Empty(t, recs, "a failed append leaves nothing behind")
}

func TestProcessDailyLogSubmissionRequiresSession(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := ProcessDailyLogSubmission(context.Background(), deps, completedAnswers())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDailyLogNotesMayBeLeftBlank(t *testing.T) {
	deps, _ := newTestDeps(t)
	ctx := sessionContext("mgr1", "Smile Dental")

	sess := wizard.NewSession(NewDailyLogDefinition(deps, "Smile Dental"))
	require.NoError(t, sess.Next(map[string]string{models.ColLogBackupDone: models.AnswerYes}))
	require.NoError(t, sess.Next(map[string]string{models.ColLogPatients: "12"}))
	require.NoError(t, sess.Next(map[string]string{models.ColLogReviews: "3"}))
	require.NoError(t, sess.Next(map[string]string{models.ColLogCash: "0"}))
	require.Equal(t, "notes", sess.StepName())

	answers, err := sess.Submit(map[string]string{models.ColLogNotes: ""})
	require.NoError(t, err)

	log, err := ProcessDailyLogSubmission(ctx, deps, answers)
	require.NoError(t, err)
	assert.Empty(t, log.Notes)
}

func TestDailyLogDefinitionShutdownStepFollowsCalendar(t *testing.T) {
	deps, mem := newTestDeps(t)

	// Tomorrow (2026-09-02) is a closure day for this center only.
	require.NoError(t, mem.AppendRow(context.Background(), models.TableHolidays,
		models.HolidayRow("Smile Dental", "2026-09-02", "Founders Day")))

	closed := wizard.NewSession(NewDailyLogDefinition(deps, "Smile Dental"))
	require.NoError(t, closed.Next(map[string]string{models.ColLogBackupDone: models.AnswerYes}))
	assert.Equal(t, "server_shutdown", closed.StepName())

	open := wizard.NewSession(NewDailyLogDefinition(deps, "City Clinic"))
	require.NoError(t, open.Next(map[string]string{models.ColLogBackupDone: models.AnswerYes}))
	assert.Equal(t, "patients", open.StepName())
}
