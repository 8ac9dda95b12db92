package lifecycle

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dirigent/internal/adapters/git"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dirigent/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dirigent/internal/adapters/markers"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dirigent/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dirigent/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dirigent/internal/core/ports"
)

// NodeID is the unique identifier for the lifecycle-engine Graft node.
const NodeID graft.ID = "engine.lifecycle"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			git.NodeID,
			markers.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			runner, err := graft.Dep[ports.ToolRunner](ctx)
			if err != nil {
				return nil, err
			}

			vcs, err := graft.Dep[ports.SourceControl](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.MarkerStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(runner, vcs, store, log, tel), nil
		},
	})
}
