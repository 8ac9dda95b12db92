// Package telemetry provides build-progress recording adapters.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/dirigent/internal/core/ports"
)

var _ ports.Telemetry = (*NoOp)(nil)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a no-op vertex.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, NoOpVertex{}
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout discards everything written to it.
func (NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr discards everything written to it.
func (NoOpVertex) Stderr() io.Writer { return io.Discard }

// Cached does nothing.
func (NoOpVertex) Cached() {}

// Complete does nothing.
func (NoOpVertex) Complete(error) {}
