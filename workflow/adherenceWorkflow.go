package workflow

import (
	"context"
	"sort"

	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/reports"
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
)

// GetAdherenceReport reconciles the last `days` calendar days for every
// center that has at least one user. The window is anchored to now at query
// time; a snapshot loaded minutes ago never shifts it.
func GetAdherenceReport(ctx context.Context, deps Deps, days int) (*reports.AdherenceReport, error) {
	snap, err := deps.Cache.Load(ctx)
	if err != nil {
		return nil, err
	}

	centers := centersFromUsers(snap.Tables[models.TableUsers])
	logs := models.DailyLogsFromRecords(snap.Tables[models.TableDailyLogs], deps.Location)

	from, to := reports.WindowEndingAt(days, deps.Now(), deps.Location)
	report := reports.ComputeAdherence(centers, from, to, logs, deps.Location)
	return &report, nil
}

func centersFromUsers(recs []sheetstore.Record) []string {
	var centers []string
	for _, rec := range recs {
		c, ok := rec.Get(models.ColUserCenterName)
		if !ok || c == "" {
			continue
		}
		centers = append(centers, c)
	}
	centers = utils.UniqueSlice(centers)
	sort.Strings(centers)
	return centers
}
