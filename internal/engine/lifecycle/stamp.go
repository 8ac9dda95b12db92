package lifecycle

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
)

// stampHash computes the input stamp recorded in a phase's completion marker:
// a hash over the instance's identity inputs and the phase name. A marker
// whose stored stamp matches the current one marks the phase as satisfied.
func stampHash(inst *project.Instance, phase domain.Phase) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(phase.String())
	_, _ = hasher.Write([]byte{0})
	for _, input := range inst.StampInputs() {
		_, _ = hasher.WriteString(input)
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
