package types

import (
	"time"

	"github.com/google/uuid"
)

// IngestionRun is one execution of the seed pipeline, persisted for audit.
type IngestionRun struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Inserted   int        `json:"inserted"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Truncated  bool       `json:"truncated"`
	InsertOnly bool       `json:"insert_only"`
}
