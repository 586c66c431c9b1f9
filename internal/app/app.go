// Package app implements the application layer for wharf.
package app

import (
	"context"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/remove"
	"go.trai.ch/wharf/internal/engine/upgrade"
)

// App represents the main application logic. The CLI layer talks only to
// this type; every command maps onto exactly one method.
type App struct {
	remover  *remove.Remover
	ejector  *eject.Ejector
	upgrader *upgrade.Engine
	fingers  *fingerprint.Engine
	log      ports.Logger
}

// New creates a new App instance.
func New(
	remover *remove.Remover,
	ejector *eject.Ejector,
	upgrader *upgrade.Engine,
	fingers *fingerprint.Engine,
	log ports.Logger,
) *App {
	return &App{
		remover:  remover,
		ejector:  ejector,
		upgrader: upgrader,
		fingers:  fingers,
		log:      log,
	}
}

// CheckRemovable reports what removing target would strand. The project is
// not touched.
func (a *App) CheckRemovable(
	sess domain.ProjectSession,
	target domain.PackageId,
) (*remove.Report, error) {
	return a.remover.CheckRemovable(sess, target)
}

// Remove deletes target from the agent project. With withDeps every
// dependency stranded by the removal goes too; force removes even when other
// components still require target.
func (a *App) Remove(
	sess domain.ProjectSession,
	target domain.PackageId,
	withDeps, force bool,
) error {
	return a.remover.Remove(sess, target, withDeps, force)
}

// Eject forks the vendor package target into the local area under the
// session author and returns its new identity. Vendor dependents are ejected
// first after a single confirmation.
func (a *App) Eject(
	sess domain.ProjectSession,
	target domain.PackageId,
	confirm ports.ConfirmFunc,
	opts eject.Options,
) (domain.PackageId, error) {
	return a.ejector.Eject(sess, target, confirm, opts)
}

// UpgradeItem replaces the vendor package target with the requested registry
// version and returns the newly installed identity.
func (a *App) UpgradeItem(
	sess domain.ProjectSession,
	target domain.PackageId,
) (domain.PackageId, error) {
	return a.upgrader.UpgradeItem(sess, target)
}

// UpgradeProject brings every vendor package of the project to the newest
// framework-compatible registry version.
func (a *App) UpgradeProject(sess domain.ProjectSession, confirm ports.ConfirmFunc) error {
	return a.upgrader.UpgradeProject(sess, confirm)
}

// Fingerprint re-stamps the fingerprint of one local package, or of the
// agent itself when target is the agent id.
func (a *App) Fingerprint(sess domain.ProjectSession, target domain.PackageId) error {
	return a.fingers.Refresh(sess, target)
}

// FingerprintAll re-stamps the agent and every local package.
func (a *App) FingerprintAll(ctx context.Context, sess domain.ProjectSession) error {
	return a.fingers.RefreshAll(ctx, sess)
}

// Check verifies the integrity of the agent and all declared components and
// reports every failure it finds.
func (a *App) Check(ctx context.Context, sess domain.ProjectSession) error {
	return a.fingers.VerifyAll(ctx, sess)
}
