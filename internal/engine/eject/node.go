package eject

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
)

// NodeID is the unique identifier for the ejector Graft node.
const NodeID graft.ID = "engine.eject"

func init() {
	graft.Register(graft.Node[*Ejector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.TreeNodeID,
			depgraph.NodeID,
			fingerprint.NodeID,
			refs.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Ejector, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}

			graphs, err := graft.Dep[*depgraph.Builder](ctx)
			if err != nil {
				return nil, err
			}

			fingers, err := graft.Dep[*fingerprint.Engine](ctx)
			if err != nil {
				return nil, err
			}

			rewriter, err := graft.Dep[*refs.Rewriter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEjector(store, tree, graphs, fingers, rewriter, log), nil
		},
	})
}
