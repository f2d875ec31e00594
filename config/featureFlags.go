package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReportLocation returns the time zone every "today/tomorrow" computation runs
// in. Centers report in their local day, so this must never silently fall back
// to the server's zone.
//
// Set via env:
// - REPORT_TIMEZONE (IANA name, default UTC)
func ReportLocation() *time.Location {
	name := strings.TrimSpace(os.Getenv("REPORT_TIMEZONE"))
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid REPORT_TIMEZONE %q: %v; using UTC", name, err)
		return time.UTC
	}
	return loc
}

// CacheTTL bounds how long a loaded sheet snapshot is served without a remote
// read. Writes invalidate regardless of this value.
//
// Set via env:
// - CACHE_TTL_SECONDS (default 120, clamped to [60, 300])
func CacheTTL() time.Duration {
	ttl := intFromEnv("CACHE_TTL_SECONDS", 120)
	if ttl < 60 {
		ttl = 60
	}
	if ttl > 300 {
		ttl = 300
	}
	return time.Duration(ttl) * time.Second
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
