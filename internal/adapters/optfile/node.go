package optfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dirigent/internal/core/ports"
)

// NodeID is the unique identifier for the option-file-loader Graft node.
const NodeID graft.ID = "adapter.option_file_loader"

func init() {
	graft.Register(graft.Node[ports.OptionFileLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.OptionFileLoader, error) {
			return NewLoader(), nil
		},
	})
}
