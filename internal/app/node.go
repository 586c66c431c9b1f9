package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/remove"
	"go.trai.ch/wharf/internal/engine/upgrade"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			remove.NodeID,
			eject.NodeID,
			upgrade.NodeID,
			fingerprint.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
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
	remover, err := graft.Dep[*remove.Remover](ctx)
	if err != nil {
		return nil, err
	}

	ejector, err := graft.Dep[*eject.Ejector](ctx)
	if err != nil {
		return nil, err
	}

	upgrader, err := graft.Dep[*upgrade.Engine](ctx)
	if err != nil {
		return nil, err
	}

	fingers, err := graft.Dep[*fingerprint.Engine](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(remover, ejector, upgrader, fingers, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
