package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wharf/internal/core/ports"
)

// NodeID is the unique identifier for the fingerprint engine Graft node.
const NodeID graft.ID = "engine.fingerprint"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.FingerprinterNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}

			finger, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(store, finger, log), nil
		},
	})
}
