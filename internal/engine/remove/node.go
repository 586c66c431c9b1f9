package remove

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
)

// NodeID is the unique identifier for the remover Graft node.
const NodeID graft.ID = "engine.remove"

func init() {
	graft.Register(graft.Node[*Remover]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.TreeNodeID,
			fs.FingerprinterNodeID,
			depgraph.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Remover, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}

			finger, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			graphs, err := graft.Dep[*depgraph.Builder](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRemover(store, tree, finger, graphs, log), nil
		},
	})
}
