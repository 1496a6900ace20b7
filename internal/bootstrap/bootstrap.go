package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mosdac-ai/orbit/internal/driver"
)

// DriverFactory produces a fresh driver targeting the given database. The
// index bootstrapper uses it to fully re-instantiate the client when the
// backend reports a database mismatch.
type DriverFactory func(database string) (driver.GraphDriver, error)

// EnsureIndices builds the indices and constraints the ingestion layer
// requires. On a database-mismatch error the client is torn down and rebuilt
// once; any further failure is permanent and reports the underlying cause.
// The returned driver replaces the one passed in if re-instantiation happened.
func EnsureIndices(ctx context.Context, d driver.GraphDriver, factory DriverFactory) (driver.GraphDriver, error) {
	err := d.BuildIndices(ctx)
	if err == nil {
		return d, nil
	}

	if !isDatabaseMismatch(err) || factory == nil {
		return d, fmt.Errorf("failed to build indices: %w", err)
	}

	log.Printf("Bootstrap: database mismatch while building indices, re-instantiating client: %v", err)

	target := d.Database()
	if closeErr := d.Close(ctx); closeErr != nil {
		log.Printf("Warning: error closing driver before retry: %v", closeErr)
	}
	time.Sleep(2 * time.Second)

	fresh, err := factory(target)
	if err != nil {
		return d, fmt.Errorf("failed to re-instantiate driver: %w", err)
	}

	if err := fresh.BuildIndices(ctx); err != nil {
		return fresh, fmt.Errorf("failed to build indices after retry: %w", err)
	}

	log.Printf("Bootstrap: indices built after client re-instantiation")
	return fresh, nil
}

func isDatabaseMismatch(err error) bool {
	return containsAny(err, "database does not exist", "database is unavailable", "unable to get a routing table for database") ||
		(containsAny(err, "database") && containsAny(err, "not found", "mismatch"))
}
