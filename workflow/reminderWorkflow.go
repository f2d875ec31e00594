package workflow

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

type ReminderInput struct {
	ReminderType string `json:"reminder_type" binding:"required"`
	DueDate      string `json:"due_date" binding:"required"`
}

// RecordReminder appends a new due date for (center, type). The log is
// append-only; the latest row wins, so no row is ever edited.
func RecordReminder(ctx context.Context, deps Deps, input ReminderInput) (*models.Reminder, error) {
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	if !models.ValidReminderType(input.ReminderType) {
		return nil, fmt.Errorf("unknown reminder type %q", input.ReminderType)
	}
	if d := models.ParseTimestamp(input.DueDate, deps.Location); d.IsZero() {
		return nil, fmt.Errorf("unparseable due date %q", input.DueDate)
	}

	reminder := models.Reminder{
		CenterName:   centerName,
		ReminderType: input.ReminderType,
		DueDate:      input.DueDate,
		RecordedAt:   deps.Now(),
	}

	err := deps.Exec.Do(ctx, "AppendRow "+models.TableReminders, func() error {
		return deps.Store.AppendRow(ctx, models.TableReminders, reminder.Row())
	})
	if err != nil {
		config.LogError(deps.Logger, "reminderWorkflow.go", "RecordReminder", "AppendRow", centerName, err)
		return nil, err
	}

	deps.Cache.Invalidate()
	return &reminder, nil
}

// GetCurrentReminders returns the effective (latest) reminder per type for
// the session's center.
func GetCurrentReminders(ctx context.Context, deps Deps) ([]models.Reminder, error) {
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	recs, _, err := deps.Cache.Table(ctx, models.TableReminders)
	if err != nil {
		return nil, err
	}

	current := models.CurrentReminders(recs, deps.Location)
	var out []models.Reminder
	for _, r := range current {
		if r.CenterName == centerName {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderType < out[j].ReminderType })
	return out, nil
}
