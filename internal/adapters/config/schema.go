package config

import (
	"sort"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/zerr"
)

// PackageManifest is the on disk shape of a package manifest.
type PackageManifest struct {
	Name              string            `yaml:"name"`
	Author            string            `yaml:"author"`
	Version           string            `yaml:"version"`
	Type              string            `yaml:"type"`
	Description       string            `yaml:"description,omitempty"`
	Framework         string            `yaml:"framework_version,omitempty"`
	Fingerprint       map[string]string `yaml:"fingerprint"`
	FingerprintIgnore []string          `yaml:"fingerprint_ignore_patterns,omitempty"`
	Protocols         []string          `yaml:"protocols,omitempty"`
	Contracts         []string          `yaml:"contracts,omitempty"`
	Connections       []string          `yaml:"connections,omitempty"`
	Skills            []string          `yaml:"skills,omitempty"`
}

// AgentManifest is the on disk shape of an agent manifest.
type AgentManifest struct {
	PackageManifest `yaml:",inline"`
	Overrides       []Override `yaml:"component_overrides,omitempty"`
}

// Override records one component override section of an agent manifest.
type Override struct {
	Type     string         `yaml:"type"`
	PublicId string         `yaml:"public_id"`
	Config   map[string]any `yaml:"config"`
}

// toDomain validates the manifest and converts it into a configuration
// rooted at dir.
func (m *PackageManifest) toDomain(dir string) (*domain.PackageConfiguration, error) {
	t, err := domain.ParsePackageType(m.Type)
	if err != nil {
		return nil, err
	}
	if m.Version == domain.LatestVersion {
		return nil, zerr.With(domain.ErrConfigInvalid, "version", m.Version)
	}
	pub, err := domain.NewPublicId(m.Author, m.Name, m.Version)
	if err != nil {
		return nil, err
	}

	deps := domain.NewComponentDependencies()
	lists := map[domain.PackageType][]string{
		domain.PackageProtocol:   m.Protocols,
		domain.PackageContract:   m.Contracts,
		domain.PackageConnection: m.Connections,
		domain.PackageSkill:      m.Skills,
	}
	for _, ct := range domain.ComponentTypes() {
		set := deps.ByType(ct)
		for _, raw := range lists[ct] {
			id, err := domain.ParsePublicId(raw)
			if err != nil {
				return nil, err
			}
			if set.Has(id.WithoutHash()) {
				return nil, zerr.With(domain.ErrDuplicateKey, "dependency", raw)
			}
			set.Add(id.WithoutHash())
		}
	}

	fp := make(domain.Fingerprint, len(m.Fingerprint))
	for path, hash := range m.Fingerprint {
		fp[path] = hash
	}

	return &domain.PackageConfiguration{
		Id:                domain.NewPackageId(t, pub),
		Description:       m.Description,
		Framework:         m.Framework,
		Fingerprint:       fp,
		FingerprintIgnore: append([]string(nil), m.FingerprintIgnore...),
		Dependencies:      deps,
		Directory:         dir,
	}, nil
}

// fromDomain converts a configuration back into its on disk shape. Dependency
// lists serialize in sorted order so saves are stable.
func fromDomain(cfg *domain.PackageConfiguration) PackageManifest {
	m := PackageManifest{
		Name:              cfg.Id.PublicId.Name(),
		Author:            cfg.Id.PublicId.Author(),
		Version:           cfg.Id.PublicId.Version(),
		Type:              cfg.Id.Type.String(),
		Description:       cfg.Description,
		Framework:         cfg.Framework,
		Fingerprint:       map[string]string(cfg.Fingerprint),
		FingerprintIgnore: cfg.FingerprintIgnore,
	}
	if m.Fingerprint == nil {
		m.Fingerprint = map[string]string{}
	}

	m.Protocols = idStrings(cfg.Dependencies.Protocols)
	m.Contracts = idStrings(cfg.Dependencies.Contracts)
	m.Connections = idStrings(cfg.Dependencies.Connections)
	m.Skills = idStrings(cfg.Dependencies.Skills)
	return m
}

// overridesFromDomain serializes the override table sorted by component id.
func overridesFromDomain(cfg *domain.AgentConfiguration) []Override {
	if len(cfg.Overrides) == 0 {
		return nil
	}
	ids := make([]domain.PackageId, 0, len(cfg.Overrides))
	for id := range cfg.Overrides {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	out := make([]Override, 0, len(ids))
	for _, id := range ids {
		out = append(out, Override{
			Type:     id.Type.String(),
			PublicId: id.PublicId.String(),
			Config:   cfg.Overrides[id],
		})
	}
	return out
}

func idStrings(set domain.Set[domain.PublicId]) []string {
	if set.Len() == 0 {
		return nil
	}
	return set.Strings()
}
