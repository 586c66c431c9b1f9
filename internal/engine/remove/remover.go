// Package remove implements safe deletion of agent components.
package remove

import (
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/zerr"
)

// Report describes the removability of one component: who requires it, which
// of its dependencies would become orphaned with it, and which are pinned by
// requirers outside its closure.
type Report struct {
	// Target is the resolved component the report is about.
	Target domain.PackageId

	// RequiredBy holds the components that declare Target as a dependency.
	RequiredBy domain.Set[domain.PackageId]

	// Removable holds the dependencies needed only inside Target's closure.
	Removable domain.Set[domain.PackageId]

	// Blocked maps every dependency that must stay to its requirers outside
	// Target's closure.
	Blocked map[domain.PackageId]domain.Set[domain.PackageId]
}

// Remover deletes components from an agent project while keeping the
// dependency graph and the agent manifest consistent.
type Remover struct {
	store  ports.PackageStore
	tree   ports.FileTree
	finger ports.Fingerprinter
	graphs *depgraph.Builder
	log    ports.Logger
}

// NewRemover creates a new Remover.
func NewRemover(
	store ports.PackageStore,
	tree ports.FileTree,
	finger ports.Fingerprinter,
	graphs *depgraph.Builder,
	log ports.Logger,
) *Remover {
	return &Remover{
		store:  store,
		tree:   tree,
		finger: finger,
		graphs: graphs,
		log:    log,
	}
}

// CheckRemovable reports whether target can be removed from the agent and
// what its removal would strand. It reads only; the project is not touched.
func (r *Remover) CheckRemovable(
	sess domain.ProjectSession,
	target domain.PackageId,
) (*Report, error) {
	agent, err := r.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return nil, err
	}

	resolved, err := agent.ResolveComponent(target)
	if err != nil {
		return nil, err
	}

	return r.check(sess, agent, resolved)
}

// check builds the agent-wide and target-scoped reverse graphs and diffs
// them. A dependency is removable when every agent-wide requirer of it lies
// inside target's own closure.
func (r *Remover) check(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	target domain.PackageId,
) (*Report, error) {
	gAgent, err := r.graphs.AgentGraph(sess, agent, true)
	if err != nil {
		return nil, err
	}
	gTarget, err := r.graphs.PackageGraph(sess, agent, target, true)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Target:     target,
		RequiredBy: gAgent.Edges(target).Clone(),
		Removable:  domain.NewSet[domain.PackageId](),
		Blocked:    make(map[domain.PackageId]domain.Set[domain.PackageId]),
	}

	for _, dep := range gTarget.Nodes().Sorted() {
		if dep == target || !agent.HasComponent(dep) {
			continue
		}
		external := gAgent.Edges(dep).Diff(gTarget.Edges(dep))
		if external.Len() == 0 {
			report.Removable.Add(dep)
		} else {
			report.Blocked[dep] = external
		}
	}

	return report, nil
}

// Remove deletes target from the agent. Unless force is set it fails with
// ErrPackageInUse while the project is untouched when other components still
// require target. With withDeps every dependency stranded by the removal is
// deleted as well. Component overrides of surviving packages are preserved.
func (r *Remover) Remove(
	sess domain.ProjectSession,
	target domain.PackageId,
	withDeps, force bool,
) error {
	return r.PreservingOverrides(sess, func(agent *domain.AgentConfiguration) error {
		return r.RemoveComponent(sess, agent, target, withDeps, force)
	})
}

// RemoveComponent removes target from the given agent configuration and
// persists the manifest after each deletion. It is the building block Remove
// and the upgrade engine share; callers own override preservation.
func (r *Remover) RemoveComponent(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	target domain.PackageId,
	withDeps, force bool,
) error {
	resolved, err := agent.ResolveComponent(target)
	if err != nil {
		return err
	}

	cfg, err := depgraph.LoadComponent(r.store, sess, resolved)
	if err != nil {
		return err
	}

	if !sess.SkipConsistencyCheck {
		ictx := domain.ContextComponent
		if cfg.Vendor {
			ictx = domain.ContextVendor
		}
		if err := r.finger.Verify(cfg, ictx); err != nil {
			return err
		}
	}

	// Graphs are only needed to reject an in-use target or to collect the
	// stranded dependencies; a forced flat removal skips the walk entirely.
	var report *Report
	if !force || withDeps {
		report, err = r.check(sess, agent, resolved)
		if err != nil {
			return err
		}
	}
	if !force && report.RequiredBy.Len() > 0 {
		inUse := zerr.With(domain.ErrPackageInUse, "package", resolved.String())
		return zerr.With(inUse, "required_by", strings.Join(report.RequiredBy.Strings(), ", "))
	}

	if err := r.tree.DeleteTree(cfg.Directory); err != nil {
		return zerr.Wrap(err, "failed to delete package directory")
	}

	agent.RemoveComponent(resolved)
	agent.DropOverride(resolved.Prefix())
	if err := r.store.SaveAgent(agent); err != nil {
		return err
	}
	r.log.Info("package removed", "package", resolved.String())

	if !withDeps {
		return nil
	}
	for _, dep := range report.Removable.Sorted() {
		if err := r.RemoveComponent(sess, agent, dep, false, true); err != nil {
			return err
		}
	}
	return nil
}

// PreservingOverrides runs fn against the agent configuration with its
// component overrides cleared, then restores the overrides whose component is
// still declared afterwards. Overrides are restored only when fn succeeds;
// they are re-keyed to the declared version so upgraded components keep their
// configuration.
func (r *Remover) PreservingOverrides(
	sess domain.ProjectSession,
	fn func(agent *domain.AgentConfiguration) error,
) error {
	agent, err := r.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}

	snapshot := agent.CloneOverrides()
	agent.Overrides = nil

	if err := fn(agent); err != nil {
		return err
	}

	reloaded, err := r.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}
	for id, override := range snapshot {
		declared, err := reloaded.ResolveComponent(
			domain.NewPackageId(id.Type, id.PublicId.ToLatest()),
		)
		if err != nil {
			continue
		}
		reloaded.SetOverride(declared, override)
	}
	return r.store.SaveAgent(reloaded)
}
