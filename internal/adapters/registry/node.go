package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/wharf/internal/adapters/fs"     //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/wharf/internal/core/ports"
)

const NodeID graft.ID = "adapter.registry.local"

func init() {
	graft.Register(graft.Node[ports.Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.TreeNodeID,
		},
		Run: func(ctx context.Context) (ports.Registry, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}
			tree, err := graft.Dep[ports.FileTree](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocalRegistry(store, tree), nil
		},
	})
}
