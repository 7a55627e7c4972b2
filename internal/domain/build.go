package domain

import (
	"time"

	"github.com/google/uuid"
)

// BuildInfo records the provenance of one store population: which source
// document it came from, how many entries made it in, how many were
// rejected, and when the build ran. One row per successful build, written
// in the same transaction as the entry population.
type BuildInfo struct {
	ID              uuid.UUID
	Source          string
	EntriesLoaded   int
	EntriesRejected int
	StartedAt       time.Time
	FinishedAt      time.Time
}
