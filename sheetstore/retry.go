package sheetstore

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Executor wraps remote calls with bounded exponential backoff. Only errors
// classified as transient are retried; everything else is surfaced
// immediately. Exhausting the budget yields ErrQuotaExceeded.
type Executor struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	logger *logrus.Logger

	// test seams
	after  func(time.Duration) <-chan time.Time
	jitter func() time.Duration
}

func NewExecutor(logger *logrus.Logger) *Executor {
	e := &Executor{
		MaxRetries:  3,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  30 * time.Second,
		logger:      logger,
		after:       time.After,
	}

	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.MaxRetries = n
		}
	}
	if v := os.Getenv("RETRY_BASE_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.BaseBackoff = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("RETRY_MAX_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.MaxBackoff = time.Duration(n) * time.Millisecond
		}
	}

	e.jitter = func() time.Duration {
		return time.Duration(rand.Int63n(int64(e.BaseBackoff)))
	}
	return e
}

// backoff returns base * 2^attempt plus jitter, capped. Jitter is bounded by
// the base so successive waits never decrease.
func (e *Executor) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(e.BaseBackoff) * math.Pow(2, float64(attempt)))
	if delay > e.MaxBackoff {
		delay = e.MaxBackoff
	}
	return delay + e.jitter()
}

// Do runs fn, retrying transient failures up to MaxRetries times. Each retry
// emits a warning event carrying the attempt number and the computed wait.
func (e *Executor) Do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if Classify(err) != KindTransient {
			return err
		}
		if attempt >= e.MaxRetries {
			return fmt.Errorf("%w: %s failed after %d retries: %v", ErrQuotaExceeded, op, e.MaxRetries, err)
		}

		wait := e.backoff(attempt)
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"module":  "sheetstore",
				"op":      op,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).Warn("transient remote error; retrying")
		}

		// The wait must abort as soon as the caller gives up.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.after(wait):
		}
	}
}
