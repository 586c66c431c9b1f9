// Package eject forks vendor packages into editable local ones.
package eject

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
	"go.trai.ch/zerr"
)

// Options control the eject flow.
type Options struct {
	// WithSymlinks links the vendor slot back to the ejected local package
	// after a successful eject.
	WithSymlinks bool

	// Quiet suppresses the dependent confirmation prompt.
	Quiet bool
}

// Ejector turns a vendor package into a local one under a new identity,
// ejecting its vendor dependents first so no package is left referencing a
// vanished vendor slot.
type Ejector struct {
	store   ports.PackageStore
	tree    ports.FileTree
	graphs  *depgraph.Builder
	fingers *fingerprint.Engine
	refs    *refs.Rewriter
	log     ports.Logger
}

// NewEjector creates a new Ejector.
func NewEjector(
	store ports.PackageStore,
	tree ports.FileTree,
	graphs *depgraph.Builder,
	fingers *fingerprint.Engine,
	rewriter *refs.Rewriter,
	log ports.Logger,
) *Ejector {
	return &Ejector{
		store:   store,
		tree:    tree,
		graphs:  graphs,
		fingers: fingers,
		refs:    rewriter,
		log:     log,
	}
}

// Eject forks the vendor package target into the local area under the
// session author, version reset to the initial one. Vendor packages
// transitively depending on target are ejected first, deepest dependent
// ahead, after a single confirmation listing all of them. A declined
// confirmation aborts with no side effects. The returned id is the new
// identity of target itself.
func (e *Ejector) Eject(
	sess domain.ProjectSession,
	target domain.PackageId,
	confirm ports.ConfirmFunc,
	opts Options,
) (domain.PackageId, error) {
	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return domain.PackageId{}, err
	}
	resolved, err := agent.ResolveComponent(target)
	if err != nil {
		return domain.PackageId{}, err
	}

	cfg, err := e.store.Load(resolved.Type, sess.VendorDir(resolved))
	if errors.Is(err, domain.ErrConfigNotFound) {
		missing := zerr.With(domain.ErrPackageNotFound, "package", resolved.String())
		return domain.PackageId{}, zerr.With(missing, "reason", "not a vendor package")
	}
	if err != nil {
		return domain.PackageId{}, err
	}

	if !sess.SkipConsistencyCheck {
		if err := e.fingers.Verify(cfg, domain.ContextVendor); err != nil {
			return domain.PackageId{}, err
		}
	}

	ejectOrder, err := e.dependentOrder(sess, agent, resolved)
	if err != nil {
		return domain.PackageId{}, err
	}

	if len(ejectOrder) > 0 {
		if !opts.Quiet && !confirm(dependentsPrompt(resolved, ejectOrder)) {
			return domain.PackageId{}, zerr.With(domain.ErrAborted, "package", resolved.String())
		}
		for _, dep := range ejectOrder {
			// Ejecting one dependent can pull deeper dependents along with
			// it, so later entries may already be local by their turn.
			if !e.tree.Exists(sess.VendorDir(dep)) {
				continue
			}
			quiet := opts
			quiet.Quiet = true
			if _, err := e.Eject(sess, dep, confirm, quiet); err != nil {
				return domain.PackageId{}, err
			}
		}
	}

	return e.ejectOne(sess, resolved, cfg, opts)
}

// dependentOrder lists the vendor packages transitively depending on target,
// deepest dependent first. Target itself is excluded.
func (e *Ejector) dependentOrder(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	target domain.PackageId,
) ([]domain.PackageId, error) {
	gAgent, err := e.graphs.AgentGraph(sess, agent, true)
	if err != nil {
		return nil, err
	}
	reachable, err := gAgent.ReachableSubgraph(target)
	if err != nil {
		return nil, err
	}
	order, err := reachable.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	slices.Reverse(order)

	dependents := make([]domain.PackageId, 0, len(order))
	for _, id := range order {
		if id != target {
			dependents = append(dependents, id)
		}
	}
	return dependents, nil
}

// ejectOne performs the mutation for a single package whose dependents are
// already local. Created paths are deleted again when any later step fails.
func (e *Ejector) ejectOne(
	sess domain.ProjectSession,
	id domain.PackageId,
	cfg *domain.PackageConfiguration,
	opts Options,
) (domain.PackageId, error) {
	src := sess.VendorDir(id)
	dst := sess.LocalDir(id)

	newPub, err := domain.NewPublicId(sess.Author, id.PublicId.Name(), domain.DefaultInitialVersion)
	if err != nil {
		return domain.PackageId{}, err
	}
	newId := domain.NewPackageId(id.Type, newPub)

	guard := newCleanup(e.tree, e.log)
	defer guard.run()

	if e.tree.Exists(dst) {
		return domain.PackageId{}, zerr.With(domain.ErrDestinationExists, "path", dst)
	}
	guard.record(dst)
	if err := e.tree.CopyTree(src, dst); err != nil {
		return domain.PackageId{}, err
	}

	ejected := *cfg
	ejected.Id = newId
	ejected.Directory = dst
	ejected.Vendor = false
	ejected.Framework = domain.EnsureCompatibilityRange(sess.FrameworkVersion, cfg.Framework)
	if err := e.store.Save(&ejected); err != nil {
		return domain.PackageId{}, err
	}
	if err := e.rewriteStub(&ejected); err != nil {
		return domain.PackageId{}, err
	}
	if err := e.fingers.Stamp(&ejected); err != nil {
		return domain.PackageId{}, err
	}

	if err := e.tree.DeleteTree(src); err != nil {
		return domain.PackageId{}, err
	}

	if _, err := e.refs.Apply(sess, map[domain.PackageId]domain.PackageId{id: newId}); err != nil {
		return domain.PackageId{}, err
	}
	if err := e.fingers.RefreshAll(context.Background(), sess); err != nil {
		return domain.PackageId{}, err
	}

	if opts.WithSymlinks {
		if err := e.relink(sess, id, dst); err != nil {
			return domain.PackageId{}, err
		}
	}

	guard.commit()
	e.log.Info("package ejected", "package", id.String(), "new_id", newId.String())
	return newId, nil
}

// rewriteStub updates the identity literal in a skill's source stub. Other
// package types carry no identity literal in their sources.
func (e *Ejector) rewriteStub(cfg *domain.PackageConfiguration) error {
	if cfg.Id.Type != domain.PackageSkill {
		return nil
	}
	stub := filepath.Join(cfg.Directory, domain.SourceStubName)
	if !e.tree.Exists(stub) {
		return nil
	}

	data, err := e.tree.ReadFile(stub)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	changed := false
	for i, line := range lines {
		if !strings.Contains(line, domain.PublicIdVarName) {
			continue
		}
		lines[i] = fmt.Sprintf("%s = PublicId.from_str(%q)", domain.PublicIdVarName, cfg.Id.PublicId)
		changed = true
	}
	if !changed {
		return nil
	}
	return e.tree.WriteFile(stub, []byte(strings.Join(lines, "\n")))
}

// relink points the emptied vendor slot at the local copy and keeps a
// project level packages link to vendor, so source imports keep resolving
// from the project root.
func (e *Ejector) relink(sess domain.ProjectSession, old domain.PackageId, dst string) error {
	if err := e.tree.Symlink(dst, sess.VendorDir(old)); err != nil {
		return err
	}
	packagesLink := filepath.Join(sess.WorkDir, domain.PackagesDirName)
	if e.tree.Exists(packagesLink) {
		return nil
	}
	return e.tree.Symlink(filepath.Join(sess.WorkDir, domain.VendorDirName), packagesLink)
}

// dependentsPrompt renders the confirmation shown before a cascading eject.
func dependentsPrompt(target domain.PackageId, dependents []domain.PackageId) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ejecting %s also ejects the packages depending on it:\n", target)
	for _, dep := range dependents {
		fmt.Fprintf(&b, "  %s\n", dep)
	}
	b.WriteString("Continue?")
	return b.String()
}
