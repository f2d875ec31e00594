package workflow

import (
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"github.com/sirupsen/logrus"
)

// Deps carries the pipeline collaborators. Now and Location are injected so
// "today/tomorrow" is testable and tied to the configured report zone, never
// the server's.
type Deps struct {
	Store    sheetstore.Store
	Cache    *sheetstore.Cache
	Exec     *sheetstore.Executor
	Logger   *logrus.Logger
	Now      func() time.Time
	Location *time.Location
}
