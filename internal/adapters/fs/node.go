package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wharf/internal/core/ports"
)

const (
	WalkerNodeID        graft.ID = "adapter.fs.walker"
	TreeNodeID          graft.ID = "adapter.fs.tree"
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
)

func init() {
	// Walker Node (Concrete implementation needed by Tree and Fingerprinter)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	// Tree Node
	graft.Register(graft.Node[ports.FileTree]{
		ID:        TreeNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.FileTree, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewTree(walker), nil
		},
	})

	// Fingerprinter Node
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewFingerprinter(walker), nil
		},
	})
}
