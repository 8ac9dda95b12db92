package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dirigent/internal/adapters/logger"
	"go.trai.ch/dirigent/internal/core/ports"
)

// NodeID is the unique identifier for the source-control Graft node.
const NodeID graft.ID = "adapter.source_control"

func init() {
	graft.Register(graft.Node[ports.SourceControl]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SourceControl, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(log), nil
		},
	})
}
