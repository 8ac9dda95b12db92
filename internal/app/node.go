package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dirigent/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/dirigent/internal/adapters/markers"   //nolint:depguard // Wired in app layer
	"go.trai.ch/dirigent/internal/adapters/optfile"   //nolint:depguard // Wired in app layer
	"go.trai.ch/dirigent/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/dirigent/internal/engine/lifecycle"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			optfile.NodeID,
			lifecycle.NodeID,
			markers.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	fileLoader, err := graft.Dep[ports.OptionFileLoader](ctx)
	if err != nil {
		return nil, err
	}

	engine, err := graft.Dep[*lifecycle.Engine](ctx)
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

	return New(fileLoader, engine, store, log, tel), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
	}, nil
}
