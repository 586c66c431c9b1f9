// Package registry resolves and fetches packages from a local package
// registry directory.
package registry

import (
	"errors"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Registry = (*LocalRegistry)(nil)

// LocalRegistry implements ports.Registry on top of a registry directory
// laid out as <root>/<author>/<plural type>/<name>. Each package directory
// holds exactly one version, so the manifest version is the latest one.
type LocalRegistry struct {
	store ports.PackageStore
	tree  ports.FileTree
}

// NewLocalRegistry creates a new LocalRegistry.
func NewLocalRegistry(store ports.PackageStore, tree ports.FileTree) *LocalRegistry {
	return &LocalRegistry{store: store, tree: tree}
}

// ResolveLatest returns the registry version of the package if it is
// compatible with the session's framework version.
func (r *LocalRegistry) ResolveLatest(sess domain.ProjectSession, prefix domain.PackagePrefix) (domain.PublicId, error) {
	cfg, err := r.load(sess, prefix)
	if err != nil {
		return domain.PublicId{}, err
	}

	if sess.FrameworkVersion != nil && cfg.Framework != "" {
		ok, err := domain.Satisfies(sess.FrameworkVersion, cfg.Framework)
		if err != nil {
			return domain.PublicId{}, zerr.With(err, "package", prefix.String())
		}
		if !ok {
			err := zerr.With(domain.ErrPackageNotFound, "package", prefix.String())
			return domain.PublicId{}, zerr.With(err, "framework_range", cfg.Framework)
		}
	}
	return cfg.Id.PublicId, nil
}

// Fetch copies the package with the given id from the registry into dst.
func (r *LocalRegistry) Fetch(sess domain.ProjectSession, id domain.PackageId, dst string) error {
	cfg, err := r.load(sess, id.Prefix())
	if err != nil {
		return err
	}
	if !id.PublicId.IsLatest() && cfg.Id.PublicId.Version() != id.PublicId.Version() {
		werr := zerr.With(domain.ErrPackageNotFound, "package", id.String())
		return zerr.With(werr, "available", cfg.Id.PublicId.Version())
	}
	return r.tree.CopyTree(cfg.Directory, dst)
}

func (r *LocalRegistry) load(sess domain.ProjectSession, prefix domain.PackagePrefix) (*domain.PackageConfiguration, error) {
	pub, err := domain.NewPublicId(prefix.Author, prefix.Name, domain.LatestVersion)
	if err != nil {
		return nil, err
	}

	dir := sess.RegistryDir(domain.NewPackageId(prefix.Type, pub))
	cfg, err := r.store.Load(prefix.Type, dir)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, zerr.With(domain.ErrPackageNotFound, "package", prefix.String())
		}
		werr := zerr.With(domain.ErrRegistryLookup, "package", prefix.String())
		return nil, zerr.With(werr, "cause", err.Error())
	}
	if cfg.Id.PublicId.Author() != prefix.Author || cfg.Id.PublicId.Name() != prefix.Name {
		werr := zerr.With(domain.ErrRegistryLookup, "package", prefix.String())
		return nil, zerr.With(werr, "manifest_id", cfg.Id.String())
	}
	return cfg, nil
}
