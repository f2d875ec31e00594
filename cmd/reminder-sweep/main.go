// reminder-sweep logs every reminder coming due within the lookahead window.
// Meant to run on a schedule; the redis lock keeps overlapping runs from
// double-reporting when more than one replica fires.
//
// Usage:
//   SPREADSHEET_ID=... REDIS_ADDRESS=... go run ./cmd/reminder-sweep -days 14
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

func main() {
	days := flag.Int("days", 14, "lookahead window in days")
	flag.Parse()

	logger := config.GetLogger()
	ctx := context.Background()

	config.ConnectRedisWithRetry()
	config.ConnectSheetsWithRetry()

	svc := config.GetSheetsService()
	if svc == nil {
		fmt.Fprintln(os.Stderr, "sheets client not initialized. Set SPREADSHEET_ID.")
		os.Exit(1)
	}

	if last, ok, _ := config.GetRedisValue("clinicops:reminder-sweep:last-run"); ok {
		logger.WithFields(logrus.Fields{
			"module":   "reminder-sweep",
			"last_run": last,
		}).Info("previous sweep")
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "clinicops:reminder-sweep", 5*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			logger.Info("another sweep is running; exiting")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to obtain sweep lock: %v\n", err)
			os.Exit(1)
		}
		defer lock.Release(context.Background())
	}

	store := sheetstore.NewSheetStore(svc, config.GetSpreadsheetId())
	exec := sheetstore.NewExecutor(logger)
	loc := config.ReportLocation()

	var recs []sheetstore.Record
	err := exec.Do(ctx, "ReadAll "+models.TableReminders, func() error {
		var rerr error
		recs, _, rerr = store.ReadAll(ctx, models.TableReminders)
		return rerr
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read reminders: %v\n", err)
		os.Exit(1)
	}

	current := models.CurrentReminders(recs, loc)
	due := models.DueWithin(current, *days, time.Now(), loc)

	for _, r := range due {
		logger.WithFields(logrus.Fields{
			"module":   "reminder-sweep",
			"center":   r.CenterName,
			"type":     r.ReminderType,
			"due_date": r.DueDate,
		}).Warn("reminder due")
	}
	logger.WithFields(logrus.Fields{
		"module": "reminder-sweep",
		"due":    len(due),
		"window": *days,
	}).Info("sweep complete")

	if err := config.SetRedisValue("clinicops:reminder-sweep:last-run", time.Now().Format(time.RFC3339), 0); err != nil {
		logger.WithFields(logrus.Fields{"module": "reminder-sweep"}).Warn("failed to record sweep time: " + err.Error())
	}
}
