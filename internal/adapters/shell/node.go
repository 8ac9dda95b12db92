package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dirigent/internal/adapters/logger"
	"go.trai.ch/dirigent/internal/core/ports"
)

// NodeID is the unique identifier for the tool-runner Graft node.
const NodeID graft.ID = "adapter.tool_runner"

func init() {
	graft.Register(graft.Node[ports.ToolRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ToolRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})
}
