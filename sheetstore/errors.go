package sheetstore

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies a remote failure so the retry policy never has to
// parse human-readable error text.
type ErrorKind int

const (
	KindUnclassified ErrorKind = iota
	// KindTransient covers rate limiting and quota pushback. Safe to retry
	// with backoff.
	KindTransient
	// KindNotFound means the named resource does not exist.
	KindNotFound
	// KindMalformed means the resource exists but cannot be interpreted
	// (e.g. no header row). Reads degrade to empty, never to an error.
	KindMalformed
)

// ErrQuotaExceeded is surfaced after the retry budget is exhausted on a
// transient failure. Terminal; callers must not retry further.
var ErrQuotaExceeded = errors.New("remote store quota exceeded")

type StoreError struct {
	Kind  ErrorKind
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("sheetstore: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto the retry taxonomy. HTTP 429 and 5xx from the
// Sheets API are transient; 404 is not-found; 400 is how the API reports an
// unparseable range, which in practice means the worksheet is absent.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnclassified
	}

	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 429:
			return KindTransient
		case gerr.Code >= 500:
			return KindTransient
		case gerr.Code == 404:
			return KindNotFound
		case gerr.Code == 400:
			return KindNotFound
		}
	}

	return KindUnclassified
}
