package eject

import "go.trai.ch/wharf/internal/core/ports"

// cleanup records the paths created during an eject so they can be deleted
// again when the operation does not run to completion.
type cleanup struct {
	tree  ports.FileTree
	log   ports.Logger
	paths []string
	done  bool
}

func newCleanup(tree ports.FileTree, log ports.Logger) *cleanup {
	return &cleanup{tree: tree, log: log}
}

// record registers a created path for deletion on failure.
func (c *cleanup) record(path string) {
	c.paths = append(c.paths, path)
}

// commit marks the operation as completed, keeping every recorded path.
func (c *cleanup) commit() {
	c.done = true
}

// run deletes the recorded paths unless the operation was committed. Meant to
// be deferred around the mutating part of an eject.
func (c *cleanup) run() {
	if c.done {
		return
	}
	for _, path := range c.paths {
		if err := c.tree.DeleteTree(path); err != nil {
			c.log.Warn("failed to clean up partial eject", "path", path, "error", err.Error())
		}
	}
}
