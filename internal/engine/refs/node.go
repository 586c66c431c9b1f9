package refs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
)

// NodeID is the unique identifier for the reference rewriter Graft node.
const NodeID graft.ID = "engine.refs"

func init() {
	graft.Register(graft.Node[*Rewriter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.TreeNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Rewriter, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRewriter(store, tree, log), nil
		},
	})
}
