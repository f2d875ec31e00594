package workflow

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"github.com/sirupsen/logrus"
)

type IncidentInput struct {
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
	Severity    string `json:"severity" binding:"required"`
}

// ProcessIncidentSubmission validates the classification against the fixed
// taxonomy and appends an Open incident. Status transitions happen outside
// this service.
func ProcessIncidentSubmission(ctx context.Context, deps Deps, input IncidentInput) (*models.Incident, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	centerName, ok := utils.GetCenterNameFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	if err := models.ValidateTaxonomy(input.Category, input.Subcategory); err != nil {
		return nil, err
	}
	if !models.ValidSeverity(input.Severity) {
		return nil, fmt.Errorf("unknown severity %q", input.Severity)
	}

	incident := models.Incident{
		Timestamp:   deps.Now(),
		Username:    username,
		CenterName:  centerName,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Description: strings.TrimSpace(input.Description),
		Severity:    input.Severity,
		Status:      models.IncidentStatusOpen,
	}

	err := deps.Exec.Do(ctx, "AppendRow "+models.TableIncidents, func() error {
		return deps.Store.AppendRow(ctx, models.TableIncidents, incident.Row())
	})
	if err != nil {
		config.LogError(deps.Logger, "incidentWorkflow.go", "ProcessIncidentSubmission", "AppendRow", centerName, err)
		return nil, err
	}

	deps.Cache.Invalidate()

	deps.Logger.WithFields(logrus.Fields{
		"module":   "workflow",
		"center":   centerName,
		"category": incident.Category,
		"severity": incident.Severity,
	}).Info("incident recorded")
	return &incident, nil
}
