package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records build progress. Each lifecycle phase of each target
// instance is one vertex.
type Telemetry interface {
	// Record starts recording a new vertex.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the unit's standard output stream.
	Stdout() io.Writer

	// Stderr returns a writer capturing the unit's error output stream.
	Stderr() io.Writer

	// Cached marks the vertex as skipped due to a valid completion marker.
	Cached()

	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
}
