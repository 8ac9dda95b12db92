package domain

import (
	"fmt"
	"time"
)

// PhaseMarker is the persisted record that a lifecycle phase completed for a
// particular set of inputs. A phase with a marker whose InputHash matches the
// currently computed stamp is skipped on re-runs unless forced.
type PhaseMarker struct {
	Target       string    `json:"target,omitzero"`
	Architecture string    `json:"architecture,omitzero"`
	Phase        string    `json:"phase,omitzero"`
	InputHash    string    `json:"input_hash,omitzero"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}

// MarkerKey builds the store key for a (target, architecture, phase) triple.
func MarkerKey(target string, arch Architecture, phase Phase) string {
	return fmt.Sprintf("%s@%s/%s", target, arch, phase)
}

// Key returns the store key for this marker.
func (m PhaseMarker) Key() string {
	return fmt.Sprintf("%s@%s/%s", m.Target, m.Architecture, m.Phase)
}
