// Package schedulereport caches planning outcomes by schedule model
// fingerprint, so replanning an unchanged catalogue and profile skips the
// solver.
package schedulereport

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-trainer/internal/services/report"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=schedulereportmock github.com/KirkDiggler/rpg-trainer/internal/repositories/schedule_report Repository

// Entry is one cached outcome
type Entry struct {
	// Fingerprint of the schedule model the outcome was solved from
	Fingerprint string `json:"fingerprint"`

	// Solver that produced the outcome
	Solver string `json:"solver"`

	Outcome   *report.Outcome `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// PutInput contains parameters for caching an outcome
type PutInput struct {
	Fingerprint string
	Solver      string
	Outcome     *report.Outcome
	TTL         time.Duration // zero uses the repository default
}

// PutOutput contains the stored entry
type PutOutput struct {
	Entry *Entry
}

// GetInput contains parameters for looking up an outcome
type GetInput struct {
	Fingerprint string
}

// GetOutput contains the cached entry
type GetOutput struct {
	Entry *Entry
}

// DeleteInput contains parameters for evicting an outcome
type DeleteInput struct {
	Fingerprint string
}

// DeleteOutput reports whether anything was evicted
type DeleteOutput struct {
	Deleted bool
}

// PurgeInput selects which cached outcomes to remove
type PurgeInput struct {
	// CorruptOnly keeps entries that decode to a self-consistent outcome
	CorruptOnly bool
}

// PurgeOutput counts what a purge touched
type PurgeOutput struct {
	Scanned int
	Deleted int
}

// Repository stores planning outcomes
type Repository interface {
	// Put stores an outcome under its model fingerprint
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Get returns a NotFound error when nothing is cached
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Purge scans every cached outcome and removes all of them, or only
	// those that are corrupt
	Purge(ctx context.Context, input PurgeInput) (*PurgeOutput, error)
}
