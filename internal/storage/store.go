package storage

import (
	"context"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
)

// ErrRunNotFound is returned when no run with the requested ID is stored.
var ErrRunNotFound = errors.New("run not found")

// Store provides an interface for persisting analysis runs. Each run is stored as
// an immutable snapshot: the analysed trace, the configuration used, every
// extracted signal feature, the interference records and the channel estimates.
type Store interface {
	// SaveRun stores the run in a single atomic transaction. A run that fails to
	// save leaves nothing behind.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - r: Result of an analysis run; its ID must not be stored yet
	//
	// Returns:
	//   - error: If storage fails or context is cancelled
	SaveRun(ctx context.Context, r *analysis.Result) error

	// Run retrieves a stored run, including its trace and configuration.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Run identifier
	//
	// Returns:
	//   - result: The rebuilt analysis result
	//   - error: ErrRunNotFound if no such run exists, or if retrieval fails
	Run(ctx context.Context, id string) (result *analysis.Result, err error)

	// Runs returns summaries of all stored runs, ordered by creation time in
	// ascending order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//
	// Returns:
	//   - runs: Run summaries
	//   - error: If retrieval fails or context is cancelled
	Runs(ctx context.Context) (runs []*RunSummary, err error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	Close() error
}
