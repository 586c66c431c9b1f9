// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/wharf/internal/adapters/config"
	_ "go.trai.ch/wharf/internal/adapters/fs"
	_ "go.trai.ch/wharf/internal/adapters/logger"
	_ "go.trai.ch/wharf/internal/adapters/registry"
	// Register app and engine nodes.
	_ "go.trai.ch/wharf/internal/app"
	_ "go.trai.ch/wharf/internal/engine/depgraph"
	_ "go.trai.ch/wharf/internal/engine/eject"
	_ "go.trai.ch/wharf/internal/engine/fingerprint"
	_ "go.trai.ch/wharf/internal/engine/refs"
	_ "go.trai.ch/wharf/internal/engine/remove"
	_ "go.trai.ch/wharf/internal/engine/upgrade"
)
