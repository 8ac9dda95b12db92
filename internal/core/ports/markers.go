package ports

import "go.trai.ch/dirigent/internal/core/domain"

// MarkerStore persists completion markers across runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=markers.go -destination=mocks/mock_markers.go -package=mocks
type MarkerStore interface {
	// Get retrieves the marker for a (target, architecture, phase) triple.
	// Returns nil, nil if not found.
	Get(target string, arch domain.Architecture, phase domain.Phase) (*domain.PhaseMarker, error)

	// Put stores the marker, replacing any previous one for the same key.
	Put(marker domain.PhaseMarker) error

	// Delete removes every marker belonging to the given target instance,
	// used by clean/force rebuilds. Deleting a target with no markers is not
	// an error.
	Delete(target string, arch domain.Architecture) error
}
