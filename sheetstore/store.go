package sheetstore

import (
	"context"
	"strings"
)

// Record is one row keyed by header column name. Values keep whatever the
// remote store returned; Get trims on the way out because sheet cells
// routinely carry stray whitespace.
type Record map[string]string

// Get returns the trimmed cell value. ok is false when the column was absent
// from the header, which is how older rows with fewer columns read back.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// ReadStatus distinguishes a genuinely empty resource from one that degraded
// to empty because it was absent or had no usable header.
type ReadStatus int

const (
	ReadOK ReadStatus = iota
	ReadEmpty
	ReadDegraded
)

// TableSpec names a worksheet and its header columns in write order.
// Column order is a contract: new fields are only ever appended.
type TableSpec struct {
	Name    string
	Columns []string
}

// Store is the gateway over named tabular resources. Implementations must
// degrade absent or malformed reads to (nil, ReadDegraded, nil) rather than
// returning an error; real remote failures are returned for the caller's
// retry wrapper to classify.
type Store interface {
	GetOrCreate(ctx context.Context, spec TableSpec) error
	ReadAll(ctx context.Context, table string) ([]Record, ReadStatus, error)
	AppendRow(ctx context.Context, table string, values []interface{}) error
}
