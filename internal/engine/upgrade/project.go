package upgrade

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/zerr"
)

// fetchDirName is the temporary directory a wholesale project replacement is
// fetched into.
const fetchDirName = ".wharf-upgrade"

// UpgradeProject brings every vendor package up to its newest
// framework-compatible registry version. When the project itself came from
// the registry and a newer project version exists, the whole project is
// replaced instead. Vendor packages depending on an upgraded package without
// being upgraded themselves are ejected first; every such blocker is reported
// and confirmed before anything is mutated, and one decline aborts the whole
// operation.
func (e *Engine) UpgradeProject(sess domain.ProjectSession, confirm ports.ConfirmFunc) error {
	replaced, err := e.replaceProject(sess, confirm)
	if err != nil || replaced {
		return err
	}

	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}

	toUpgrade, err := e.selectUpgrades(sess, agent)
	if err != nil {
		return err
	}
	if len(toUpgrade) == 0 {
		e.log.Info("all packages are up to date")
		return nil
	}

	if err := e.ejectBlockers(sess, agent, toUpgrade, confirm); err != nil {
		return err
	}
	if err := e.refreshFrameworkRanges(sess); err != nil {
		return err
	}

	// Ejections change identities, so the partition below runs on a fresh
	// agent view and a fresh graph.
	agent, err = e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}
	for old := range toUpgrade {
		if !agent.HasComponent(old) {
			e.log.Warn("package was ejected during the upgrade and stays local", "package", old.String())
			delete(toUpgrade, old)
		}
	}
	if len(toUpgrade) == 0 {
		return nil
	}

	direct, shared, err := e.partition(sess, agent, toUpgrade)
	if err != nil {
		return err
	}

	err = e.remover.PreservingOverrides(sess, func(agent *domain.AgentConfiguration) error {
		for _, old := range shared {
			if err := e.remover.RemoveComponent(sess, agent, old, false, true); err != nil {
				return err
			}
		}
		for _, old := range direct {
			if err := e.remover.RemoveComponent(sess, agent, old, false, true); err != nil {
				return err
			}
			if err := e.addComponent(sess, agent, toUpgrade[old]); err != nil {
				return err
			}
		}
		_, err := e.refs.Apply(sess, toUpgrade)
		return err
	})
	if err != nil {
		return err
	}

	if err := e.fingers.RefreshAll(context.Background(), sess); err != nil {
		return err
	}
	e.log.Info("project upgraded", "packages", len(toUpgrade))
	return nil
}

// replaceProject offers a wholesale replacement when the registry holds a
// newer version of the project itself. It reports whether the project was
// replaced.
func (e *Engine) replaceProject(sess domain.ProjectSession, confirm ports.ConfirmFunc) (bool, error) {
	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return false, err
	}

	prefix := domain.NewPackageId(domain.PackageAgent, agent.Id.PublicId).Prefix()
	latest, err := e.registry.ResolveLatest(sess, prefix)
	if errors.Is(err, domain.ErrPackageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cmp, err := domain.CompareVersions(latest.Version(), agent.Id.PublicId.Version())
	if err != nil || cmp <= 0 {
		return false, err
	}

	prompt := fmt.Sprintf("Project version %s is available (installed %s). Fetch it and replace the whole project?",
		latest, agent.Id.PublicId)
	if !confirm(prompt) {
		return false, nil
	}

	tmp := filepath.Join(sess.WorkDir, fetchDirName)
	newPkg := domain.NewPackageId(domain.PackageAgent, latest)
	if err := e.registry.Fetch(sess, newPkg, tmp); err != nil {
		return false, err
	}
	defer e.tree.DeleteTree(tmp) //nolint:errcheck // Best effort cleanup of the fetch dir

	next, err := e.store.LoadAgent(tmp)
	if err != nil {
		return false, err
	}
	if err := e.syncComponents(sess, agent, next); err != nil {
		return false, err
	}

	// The project takes over the fetched manifest's identity and overrides.
	agent, err = e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return false, err
	}
	agent.Id = next.Id
	agent.Description = next.Description
	agent.Framework = next.Framework
	agent.FingerprintIgnore = next.FingerprintIgnore
	agent.Overrides = next.CloneOverrides()
	if err := e.store.SaveAgent(agent); err != nil {
		return false, err
	}

	e.log.Info("project replaced", "project", next.Id.String())
	return true, nil
}

// syncComponents aligns the installed component set with the declared set of
// the fetched project manifest: obsolete components are removed, changed
// versions replaced, and missing ones fetched.
func (e *Engine) syncComponents(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	next *domain.AgentConfiguration,
) error {
	obsolete := make(map[domain.PackagePrefix]domain.PackageId)
	for _, id := range agent.AllComponents() {
		obsolete[id.Prefix()] = id
	}

	var add []domain.PackageId
	for _, id := range next.AllComponents() {
		if cur, ok := obsolete[id.Prefix()]; ok {
			if cur == id {
				delete(obsolete, id.Prefix())
				continue
			}
			// Same package, different version: the removal below frees the
			// slot before the add.
		}
		add = append(add, id)
	}

	for _, id := range obsoleteSorted(obsolete) {
		if err := e.remover.RemoveComponent(sess, agent, id, false, true); err != nil {
			return err
		}
	}
	for _, id := range add {
		if err := e.addComponent(sess, agent, id); err != nil {
			return err
		}
	}
	return nil
}

func obsoleteSorted(byPrefix map[domain.PackagePrefix]domain.PackageId) []domain.PackageId {
	ids := domain.NewSet[domain.PackageId]()
	for _, id := range byPrefix {
		ids.Add(id)
	}
	return ids.Sorted()
}

// selectUpgrades queries the registry for every declared vendor component and
// keeps those with a strictly newer compatible version. Local packages are
// skipped with a warning; packages unknown to the registry are skipped
// silently.
func (e *Engine) selectUpgrades(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
) (map[domain.PackageId]domain.PackageId, error) {
	toUpgrade := make(map[domain.PackageId]domain.PackageId)

	for _, id := range agent.AllComponents() {
		cfg, err := depgraph.LoadComponent(e.store, sess, id)
		if err != nil {
			return nil, err
		}
		if !cfg.Vendor {
			e.log.Warn("skipping local package", "package", id.String())
			continue
		}

		latest, err := e.registry.ResolveLatest(sess, id.Prefix())
		if errors.Is(err, domain.ErrPackageNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cmp, err := domain.CompareVersions(latest.Version(), id.PublicId.Version())
		if err != nil {
			return nil, err
		}
		if cmp > 0 {
			toUpgrade[id] = domain.NewPackageId(id.Type, latest)
		}
	}
	return toUpgrade, nil
}

// ejectBlockers ejects every vendor package that depends on an upgraded
// package without being upgraded itself, including the blockers' own
// transitive dependents. The complete set is reported and confirmed, one
// prompt per blocker, before the first eject runs.
func (e *Engine) ejectBlockers(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	toUpgrade map[domain.PackageId]domain.PackageId,
	confirm ports.ConfirmFunc,
) error {
	gAgent, err := e.graphs.AgentGraph(sess, agent, true)
	if err != nil {
		return err
	}

	batch := domain.NewSet[domain.PackageId]()
	for old := range toUpgrade {
		batch.Add(old)
	}

	blockers := domain.NewSet[domain.PackageId]()
	for old := range toUpgrade {
		for requirer := range gAgent.Edges(old) {
			if !batch.Has(requirer) {
				blockers.Add(requirer)
			}
		}
	}
	if blockers.Len() == 0 {
		return nil
	}

	// Ejecting a blocker drags its own dependents along, so those count as
	// blockers too and get reported up front.
	closure, err := gAgent.ReachableSubgraph(blockers.Sorted()...)
	if err != nil {
		return err
	}
	mustEject := domain.NewSet[domain.PackageId]()
	for node := range closure.Nodes() {
		if !batch.Has(node) {
			mustEject.Add(node)
		}
	}

	e.log.Info("dependent packages must be ejected before upgrading",
		"packages", strings.Join(mustEject.Strings(), ", "))
	for _, blocker := range mustEject.Sorted() {
		prompt := fmt.Sprintf("%s depends on packages scheduled for upgrade and must be ejected. Eject it?", blocker)
		if !confirm(prompt) {
			return zerr.With(domain.ErrAborted, "package", blocker.String())
		}
	}

	for _, blocker := range mustEject.Sorted() {
		if !e.tree.Exists(sess.VendorDir(blocker)) {
			continue
		}
		if _, err := e.ejector.Eject(sess, blocker, ports.AlwaysConfirm, eject.Options{Quiet: true}); err != nil {
			return err
		}
	}
	return nil
}

// refreshFrameworkRanges re-derives the framework constraint of the agent
// and of every local package against the running framework version.
func (e *Engine) refreshFrameworkRanges(sess domain.ProjectSession) error {
	if sess.FrameworkVersion == nil {
		return nil
	}

	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}
	if next := domain.EnsureCompatibilityRange(sess.FrameworkVersion, agent.Framework); next != agent.Framework {
		agent.Framework = next
		if err := e.store.SaveAgent(agent); err != nil {
			return err
		}
	}

	locals, err := e.store.LoadLocal(sess.WorkDir)
	if err != nil {
		return err
	}
	for _, cfg := range locals {
		next := domain.EnsureCompatibilityRange(sess.FrameworkVersion, cfg.Framework)
		if next == cfg.Framework {
			continue
		}
		cfg.Framework = next
		if err := e.store.Save(cfg); err != nil {
			return err
		}
	}
	return nil
}

// partition splits the batch into directly upgradeable packages (nothing
// requires them) and shared dependencies whose requirers are all replaced by
// the same batch. A package still required outside the batch is dropped with
// a warning; dropping one shrinks the batch, so the check repeats until no
// further package falls out.
func (e *Engine) partition(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	toUpgrade map[domain.PackageId]domain.PackageId,
) (direct, shared []domain.PackageId, err error) {
	gAgent, err := e.graphs.AgentGraph(sess, agent, true)
	if err != nil {
		return nil, nil, err
	}

	batch := domain.NewSet[domain.PackageId]()
	for old := range toUpgrade {
		batch.Add(old)
	}

	for dropped := true; dropped; {
		dropped = false
		for _, old := range batch.Sorted() {
			requirers := gAgent.Edges(old)
			if requirers.Len() == 0 {
				continue
			}
			external := requirers.Diff(batch)
			if external.Len() == 0 {
				continue
			}
			e.log.Warn("cannot upgrade shared dependency, still required outside the batch",
				"package", old.String(), "required_by", strings.Join(external.Strings(), ", "))
			delete(toUpgrade, old)
			batch.Delete(old)
			dropped = true
		}
	}

	for _, old := range batch.Sorted() {
		if gAgent.Edges(old).Len() == 0 {
			direct = append(direct, old)
		} else {
			shared = append(shared, old)
		}
	}
	return direct, shared, nil
}
