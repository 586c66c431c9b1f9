package upgrade

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/registry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
	"go.trai.ch/wharf/internal/engine/remove"
)

// NodeID is the unique identifier for the upgrade engine Graft node.
const NodeID graft.ID = "engine.upgrade"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.TreeNodeID,
			registry.NodeID,
			depgraph.NodeID,
			remove.NodeID,
			eject.NodeID,
			fingerprint.NodeID,
			refs.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}

			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}

			graphs, err := graft.Dep[*depgraph.Builder](ctx)
			if err != nil {
				return nil, err
			}

			remover, err := graft.Dep[*remove.Remover](ctx)
			if err != nil {
				return nil, err
			}

			ejector, err := graft.Dep[*eject.Ejector](ctx)
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

			return NewEngine(store, tree, reg, graphs, remover, ejector, fingers, rewriter, log), nil
		},
	})
}
