// Package config reads and writes package manifests as YAML files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.PackageStore = (*Store)(nil)

// Store implements ports.PackageStore on top of the local file system.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the manifest of the given type from dir.
func (s *Store) Load(t domain.PackageType, dir string) (*domain.PackageConfiguration, error) {
	var m PackageManifest
	path := filepath.Join(dir, t.ConfigFileName())
	if err := s.read(path, &m); err != nil {
		return nil, err
	}

	cfg, err := m.toDomain(dir)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if cfg.Id.Type != t {
		err := zerr.With(domain.ErrConfigInvalid, "expected_type", t.String())
		return nil, zerr.With(err, "path", path)
	}
	cfg.Vendor = underVendor(dir)
	return cfg, nil
}

// Save writes the package manifest into its directory.
func (s *Store) Save(cfg *domain.PackageConfiguration) error {
	m := fromDomain(cfg)
	return s.write(filepath.Join(cfg.Directory, cfg.Id.Type.ConfigFileName()), m)
}

// LoadAgent reads the agent manifest from dir, including overrides.
func (s *Store) LoadAgent(dir string) (*domain.AgentConfiguration, error) {
	var m AgentManifest
	path := filepath.Join(dir, domain.AgentConfigName)
	if err := s.read(path, &m); err != nil {
		return nil, err
	}

	base, err := m.toDomain(dir)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if base.Id.Type != domain.PackageAgent {
		err := zerr.With(domain.ErrConfigInvalid, "expected_type", domain.PackageAgent.String())
		return nil, zerr.With(err, "path", path)
	}

	cfg := &domain.AgentConfiguration{PackageConfiguration: *base}
	for _, o := range m.Overrides {
		t, err := domain.ParsePackageType(o.Type)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		pub, err := domain.ParsePublicId(o.PublicId)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		id := domain.NewPackageId(t, pub.WithoutHash())
		if _, exists := cfg.Override(id); exists {
			err := zerr.With(domain.ErrDuplicateKey, "override", o.PublicId)
			return nil, zerr.With(err, "path", path)
		}
		cfg.SetOverride(id, o.Config)
	}
	return cfg, nil
}

// SaveAgent writes the agent manifest into its directory.
func (s *Store) SaveAgent(cfg *domain.AgentConfiguration) error {
	m := AgentManifest{
		PackageManifest: fromDomain(&cfg.PackageConfiguration),
		Overrides:       overridesFromDomain(cfg),
	}
	return s.write(filepath.Join(cfg.Directory, domain.AgentConfigName), m)
}

// LoadLocal loads the manifests of all local packages under the agent root,
// ordered by type and then by name.
func (s *Store) LoadLocal(root string) ([]*domain.PackageConfiguration, error) {
	var out []*domain.PackageConfiguration
	for _, t := range domain.ComponentTypes() {
		dir := filepath.Join(root, t.Plural())
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read package directory"), "path", dir)
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "__") {
				continue
			}
			cfg, err := s.Load(t, filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			cfg.Vendor = false
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (s *Store) read(path string, into any) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if os.IsNotExist(err) {
			return zerr.With(domain.ErrConfigNotFound, "path", path)
		}
		return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		wrapped := zerr.With(domain.ErrConfigInvalid, "parse_error", err.Error())
		return zerr.With(wrapped, "path", path)
	}
	return nil
}

func (s *Store) write(path string, m any) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to serialize manifest"), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // Path is controlled by caller
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	return nil
}

// underVendor reports whether the directory sits inside a vendor tree.
func underVendor(dir string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == domain.VendorDirName {
			return true
		}
	}
	return false
}
