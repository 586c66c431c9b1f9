package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/core/ports"
)

const NodeID graft.ID = "adapter.config.store"

func init() {
	graft.Register(graft.Node[ports.PackageStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.PackageStore, error) {
			return NewStore(), nil
		},
	})
}
