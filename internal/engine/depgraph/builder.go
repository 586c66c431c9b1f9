// Package depgraph builds reverse dependency graphs from package manifests.
package depgraph

import (
	"errors"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder walks package configurations through the store and assembles
// the reverse dependency adjacency of an agent project.
type Builder struct {
	store ports.PackageStore
}

// NewBuilder creates a new Builder.
func NewBuilder(store ports.PackageStore) *Builder {
	return &Builder{store: store}
}

// AgentGraph builds the reverse dependency graph of the whole agent: every
// declared component is a node, and every dependency a component declares
// contributes an edge dependency -> requirer. When ignoreLocal is set,
// components with a local copy are recorded but not descended into.
func (b *Builder) AgentGraph(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	ignoreLocal bool,
) (domain.DependencyGraph, error) {
	w := b.newWalk(sess, agent, ignoreLocal)

	for _, id := range agent.AllComponents() {
		w.graph.AddNode(id)

		cfg, err := w.load(id)
		if err != nil {
			return nil, err
		}
		if ignoreLocal && !cfg.Vendor {
			continue
		}
		if err := w.descend(id); err != nil {
			return nil, err
		}
	}

	return w.graph, nil
}

// PackageGraph builds the reverse dependency graph scoped to target's own
// transitive closure. Target must be a concrete component declared in the
// agent configuration.
func (b *Builder) PackageGraph(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	target domain.PackageId,
	ignoreLocal bool,
) (domain.DependencyGraph, error) {
	w := b.newWalk(sess, agent, ignoreLocal)
	w.graph.AddNode(target)

	if err := w.descend(target); err != nil {
		return nil, err
	}

	return w.graph, nil
}

// walk is the per-call traversal state. Configurations are cached so that
// diamond dependencies load each manifest once.
type walk struct {
	builder     *Builder
	sess        domain.ProjectSession
	agent       *domain.AgentConfiguration
	ignoreLocal bool
	graph       domain.DependencyGraph
	visited     domain.Set[domain.PackageId]
	active      domain.Set[domain.PackageId]
	cache       map[domain.PackageId]*domain.PackageConfiguration
}

func (b *Builder) newWalk(
	sess domain.ProjectSession,
	agent *domain.AgentConfiguration,
	ignoreLocal bool,
) *walk {
	return &walk{
		builder:     b,
		sess:        sess,
		agent:       agent,
		ignoreLocal: ignoreLocal,
		graph:       domain.NewDependencyGraph(),
		visited:     domain.NewSet[domain.PackageId](),
		active:      domain.NewSet[domain.PackageId](),
		cache:       make(map[domain.PackageId]*domain.PackageConfiguration),
	}
}

func (w *walk) descend(id domain.PackageId) error {
	if w.visited.Has(id) {
		return nil
	}
	if w.active.Has(id) {
		return zerr.With(domain.ErrCyclicGraph, "package", id.String())
	}
	w.active.Add(id)
	defer w.active.Delete(id)

	cfg, err := w.load(id)
	if err != nil {
		return err
	}

	for _, raw := range cfg.Dependencies.Components() {
		dep, declared := w.canonical(raw)
		w.graph.AddEdge(dep, id)
		if !declared {
			continue
		}

		depCfg, err := w.load(dep)
		if err != nil {
			return err
		}
		if w.ignoreLocal && !depCfg.Vendor {
			continue
		}
		if err := w.descend(dep); err != nil {
			return err
		}
	}

	w.visited.Add(id)
	return nil
}

// canonical maps a dependency reference onto the agent's declared identifier
// for the same package prefix, so that graph nodes from different manifests
// compare equal even when their declared versions drift apart. References to
// packages the agent does not declare are kept as-is and not descended into.
func (w *walk) canonical(ref domain.PackageId) (domain.PackageId, bool) {
	ref = ref.WithoutHash()
	if w.agent.HasComponent(ref) {
		return ref, true
	}

	declared, err := w.agent.ResolveComponent(
		domain.NewPackageId(ref.Type, ref.PublicId.ToLatest()),
	)
	if err != nil {
		return ref, false
	}
	return declared, true
}

// load reads a component's configuration through LoadComponent, caching the
// result for the lifetime of the walk.
func (w *walk) load(id domain.PackageId) (*domain.PackageConfiguration, error) {
	if cfg, ok := w.cache[id]; ok {
		return cfg, nil
	}

	cfg, err := LoadComponent(w.builder.store, w.sess, id)
	if err != nil {
		return nil, err
	}

	w.cache[id] = cfg
	return cfg, nil
}

// LoadComponent reads the configuration of a declared component, preferring a
// local copy over the vendor one. It fails with ErrPackageNotFound when
// neither location holds a manifest, and with ErrConfigInvalid when the
// manifest on disk identifies a different package.
func LoadComponent(
	store ports.PackageStore,
	sess domain.ProjectSession,
	id domain.PackageId,
) (*domain.PackageConfiguration, error) {
	cfg, err := store.Load(id.Type, sess.LocalDir(id))
	if errors.Is(err, domain.ErrConfigNotFound) {
		cfg, err = store.Load(id.Type, sess.VendorDir(id))
	}
	if errors.Is(err, domain.ErrConfigNotFound) {
		return nil, zerr.With(domain.ErrPackageNotFound, "package", id.String())
	}
	if err != nil {
		return nil, err
	}

	if !cfg.Id.PublicId.SamePrefix(id.PublicId) {
		mismatch := zerr.With(domain.ErrConfigInvalid, "package", id.String())
		return nil, zerr.With(mismatch, "manifest_id", cfg.Id.String())
	}

	return cfg, nil
}
