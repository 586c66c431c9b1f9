package depgraph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
)

// NodeID is the unique identifier for the graph builder Graft node.
const NodeID graft.ID = "engine.depgraph"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(store), nil
		},
	})
}
