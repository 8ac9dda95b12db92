package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	tprogrock "go.trai.ch/dirigent/internal/adapters/telemetry/progrock"
	"go.trai.ch/dirigent/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.Telemetry, error) {
			return tprogrock.New(), nil
		},
	})
}
