package workflow

import (
	"context"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

type ServiceLogInput struct {
	Equipment string `json:"equipment" binding:"required,max=100"`
	Action    string `json:"action" binding:"required,max=100"`
	Notes     string `json:"notes" binding:"max=250"`
}

// ProcessServiceLogSubmission appends one equipment maintenance record.
func ProcessServiceLogSubmission(ctx context.Context, deps Deps, input ServiceLogInput) (*models.ServiceLog, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	entry := models.ServiceLog{
		Timestamp:  deps.Now(),
		Username:   username,
		CenterName: centerName,
		Equipment:  strings.TrimSpace(input.Equipment),
		Action:     strings.TrimSpace(input.Action),
		Notes:      strings.TrimSpace(input.Notes),
	}

	err := deps.Exec.Do(ctx, "AppendRow "+models.TableServiceLogs, func() error {
		return deps.Store.AppendRow(ctx, models.TableServiceLogs, entry.Row())
	})
	if err != nil {
		config.LogError(deps.Logger, "serviceWorkflow.go", "ProcessServiceLogSubmission", "AppendRow", centerName, err)
		return nil, err
	}

	deps.Cache.Invalidate()
	return &entry, nil
}

// GetServiceLogs returns the session center's maintenance history, newest
// first.
func GetServiceLogs(ctx context.Context, deps Deps) ([]models.ServiceLog, error) {
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	recs, _, err := deps.Cache.Table(ctx, models.TableServiceLogs)
	if err != nil {
		return nil, err
	}

	var out []models.ServiceLog
	for _, entry := range models.ServiceLogsFromRecords(recs, deps.Location) {
		if entry.CenterName == centerName {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// GetServiceContacts resolves the effective contact list for the session's
// center: built-in defaults overlaid with sheet overrides.
func GetServiceContacts(ctx context.Context, deps Deps) ([]models.ServiceContact, error) {
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	recs, _, err := deps.Cache.Table(ctx, models.TableServiceContacts)
	if err != nil {
		return nil, err
	}
	return models.ResolveServiceContacts(recs, centerName), nil
}
