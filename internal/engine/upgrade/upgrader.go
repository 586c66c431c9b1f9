// Package upgrade replaces installed vendor packages with newer registry
// versions, per item or across the whole project.
package upgrade

import (
	"errors"
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
	"go.trai.ch/wharf/internal/engine/remove"
	"go.trai.ch/zerr"
)

// Engine upgrades vendor packages. It composes the remove engine for the
// teardown half, the eject engine for dependents blocking an upgrade, and the
// reference rewriter for the identity switch.
type Engine struct {
	store    ports.PackageStore
	tree     ports.FileTree
	registry ports.Registry
	graphs   *depgraph.Builder
	remover  *remove.Remover
	ejector  *eject.Ejector
	fingers  *fingerprint.Engine
	refs     *refs.Rewriter
	log      ports.Logger
}

// NewEngine creates a new upgrade Engine.
func NewEngine(
	store ports.PackageStore,
	tree ports.FileTree,
	registry ports.Registry,
	graphs *depgraph.Builder,
	remover *remove.Remover,
	ejector *eject.Ejector,
	fingers *fingerprint.Engine,
	rewriter *refs.Rewriter,
	log ports.Logger,
) *Engine {
	return &Engine{
		store:    store,
		tree:     tree,
		registry: registry,
		graphs:   graphs,
		remover:  remover,
		ejector:  ejector,
		fingers:  fingers,
		refs:     rewriter,
		log:      log,
	}
}

// UpgradeItem replaces the installed version of target with the requested
// one, or with the newest framework-compatible registry version when target
// carries the latest wildcard. The target must be a vendor package nothing
// else requires; its stranded dependencies are removed and the new closure is
// fetched in. The returned id is the newly installed identity.
func (e *Engine) UpgradeItem(
	sess domain.ProjectSession,
	target domain.PackageId,
) (domain.PackageId, error) {
	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return domain.PackageId{}, err
	}
	resolved, err := agent.ResolveComponent(target)
	if err != nil {
		return domain.PackageId{}, err
	}

	cfg, err := depgraph.LoadComponent(e.store, sess, resolved)
	if err != nil {
		return domain.PackageId{}, err
	}
	if !cfg.Vendor {
		return domain.PackageId{}, zerr.With(domain.ErrVendorConflict, "package", resolved.String())
	}
	if !sess.SkipConsistencyCheck {
		if err := e.fingers.Verify(cfg, domain.ContextVendor); err != nil {
			return domain.PackageId{}, err
		}
	}

	report, err := e.remover.CheckRemovable(sess, resolved)
	if err != nil {
		return domain.PackageId{}, err
	}
	if report.RequiredBy.Len() > 0 {
		inUse := zerr.With(domain.ErrRequiredByOthers, "package", resolved.String())
		return domain.PackageId{}, zerr.With(inUse, "required_by", strings.Join(report.RequiredBy.Strings(), ", "))
	}

	candidate, err := e.candidate(sess, resolved, target)
	if err != nil {
		return domain.PackageId{}, err
	}
	newId := domain.NewPackageId(resolved.Type, candidate)

	err = e.remover.PreservingOverrides(sess, func(agent *domain.AgentConfiguration) error {
		if err := e.remover.RemoveComponent(sess, agent, resolved, true, true); err != nil {
			return err
		}
		if err := e.addComponent(sess, agent, newId); err != nil {
			return err
		}
		_, err := e.refs.Apply(sess, map[domain.PackageId]domain.PackageId{resolved: newId})
		return err
	})
	if err != nil {
		return domain.PackageId{}, err
	}

	e.log.Info("package upgraded", "package", resolved.String(), "new_id", newId.String())
	return newId, nil
}

// candidate picks the version to install. An explicit version in the request
// wins; otherwise the registry decides, and only a strictly newer version
// than the installed one is accepted.
func (e *Engine) candidate(
	sess domain.ProjectSession,
	installed domain.PackageId,
	requested domain.PackageId,
) (domain.PublicId, error) {
	if !requested.PublicId.IsLatest() {
		if requested.PublicId.Version() == installed.PublicId.Version() {
			return domain.PublicId{}, zerr.With(domain.ErrAlreadyLatest, "package", installed.String())
		}
		return requested.PublicId.WithoutHash(), nil
	}

	latest, err := e.registry.ResolveLatest(sess, installed.Prefix())
	if err != nil {
		return domain.PublicId{}, err
	}
	cmp, err := domain.CompareVersions(latest.Version(), installed.PublicId.Version())
	if err != nil {
		return domain.PublicId{}, err
	}
	if cmp <= 0 {
		already := zerr.With(domain.ErrAlreadyLatest, "package", installed.String())
		return domain.PublicId{}, zerr.With(already, "registry_version", latest.Version())
	}
	return latest, nil
}

// addComponent fetches id into the vendor area, registers it with the agent,
// and pulls in every declared dependency the agent does not hold yet.
func (e *Engine) addComponent(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	id domain.PackageId,
) error {
	dst := sess.VendorDir(id)
	if !e.tree.Exists(dst) {
		if err := e.registry.Fetch(sess, id, dst); err != nil {
			return err
		}
	}

	cfg, err := e.store.Load(id.Type, dst)
	if err != nil {
		return err
	}
	if !sess.SkipConsistencyCheck {
		if err := e.fingers.Verify(cfg, domain.ContextVendor); err != nil {
			return err
		}
	}

	agent.AddComponent(domain.NewPackageId(id.Type, cfg.Id.PublicId))
	if err := e.store.SaveAgent(agent); err != nil {
		return err
	}
	e.log.Info("package added", "package", id.String())

	for _, dep := range cfg.Dependencies.Components() {
		probe := domain.NewPackageId(dep.Type, dep.PublicId.ToLatest())
		if _, err := agent.ResolveComponent(probe); !errors.Is(err, domain.ErrPackageNotFound) {
			continue
		}
		if err := e.addComponent(sess, agent, dep.WithoutHash()); err != nil {
			return err
		}
	}
	return nil
}
