package interfaces

import (
	"context"

	"github.com/atlascap/maradar/internal/models"
)

// Collector produces raw signals from one public source for a pipeline run.
// Implementations degrade to an empty or best-effort partial slice when the
// source is unreachable and log their own failure; the pipeline additionally
// isolates any collector that does return an error, so one broken source
// never takes down a run.
type Collector interface {
	// Name identifies the collector in logs and on produced signals.
	Name() string

	// Collect scans the source and returns the signals found for this run.
	Collect(ctx context.Context) ([]*models.Signal, error)
}
