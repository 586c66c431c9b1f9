package domain

import "go.trai.ch/zerr"

// ComponentDependencies holds the component identifiers a package declares,
// grouped by type.
type ComponentDependencies struct {
	Protocols   Set[PublicId]
	Contracts   Set[PublicId]
	Connections Set[PublicId]
	Skills      Set[PublicId]
}

// NewComponentDependencies returns an empty dependency declaration with all
// typed sets initialized.
func NewComponentDependencies() ComponentDependencies {
	return ComponentDependencies{
		Protocols:   NewSet[PublicId](),
		Contracts:   NewSet[PublicId](),
		Connections: NewSet[PublicId](),
		Skills:      NewSet[PublicId](),
	}
}

// ByType returns the dependency set for the given component type, or nil for
// a type that cannot be depended on.
func (d *ComponentDependencies) ByType(t PackageType) *Set[PublicId] {
	switch t {
	case PackageProtocol:
		return &d.Protocols
	case PackageContract:
		return &d.Contracts
	case PackageConnection:
		return &d.Connections
	case PackageSkill:
		return &d.Skills
	default:
		return nil
	}
}

// Components returns every declared component with its type, ordered by type
// and then by identifier.
func (d *ComponentDependencies) Components() []PackageId {
	var out []PackageId
	for _, t := range ComponentTypes() {
		for _, id := range d.ByType(t).Sorted() {
			out = append(out, PackageId{Type: t, PublicId: id})
		}
	}
	return out
}

// Count returns the number of declared components across all types.
func (d *ComponentDependencies) Count() int {
	n := 0
	for _, t := range ComponentTypes() {
		n += d.ByType(t).Len()
	}
	return n
}

// PackageConfiguration is the parsed configuration of a single package.
type PackageConfiguration struct {
	// Id identifies the package, including its declared version.
	Id PackageId

	// Description is the free form package description.
	Description string

	// Framework is the framework version range the package accepts.
	Framework string

	// Fingerprint is the recorded content fingerprint.
	Fingerprint Fingerprint

	// FingerprintIgnore lists extra patterns excluded from the fingerprint.
	FingerprintIgnore []string

	// Dependencies lists the components the package declares.
	Dependencies ComponentDependencies

	// Directory is the directory the configuration was loaded from. It is
	// not serialized.
	Directory string

	// Vendor reports whether the package was loaded from a vendor tree. It
	// is not serialized.
	Vendor bool
}

// IgnorePatterns returns the default fingerprint exclusions merged with the
// package specific ones.
func (c *PackageConfiguration) IgnorePatterns() []string {
	return append(DefaultFingerprintIgnore(), c.FingerprintIgnore...)
}

// AgentConfiguration is the parsed configuration of an agent root.
type AgentConfiguration struct {
	PackageConfiguration

	// Overrides carries configuration overrides keyed by the overridden
	// component.
	Overrides map[PackageId]map[string]any
}

// AllComponents returns every component the agent declares, ordered by type
// and then by identifier.
func (c *AgentConfiguration) AllComponents() []PackageId {
	return c.Dependencies.Components()
}

// HasComponent reports whether the agent declares exactly this component.
func (c *AgentConfiguration) HasComponent(id PackageId) bool {
	deps := c.Dependencies.ByType(id.Type)
	return deps != nil && deps.Has(id.PublicId)
}

// AddComponent declares the component, dropping any hash from its identifier.
func (c *AgentConfiguration) AddComponent(id PackageId) {
	if deps := c.Dependencies.ByType(id.Type); deps != nil {
		deps.Add(id.PublicId.WithoutHash())
	}
}

// RemoveComponent removes the component declaration.
func (c *AgentConfiguration) RemoveComponent(id PackageId) {
	if deps := c.Dependencies.ByType(id.Type); deps != nil {
		deps.Delete(id.PublicId)
	}
}

// ResolveComponent resolves a possibly unversioned component identifier
// against the declared components. A "latest" version matches any declared
// version; a concrete version must match exactly.
func (c *AgentConfiguration) ResolveComponent(target PackageId) (PackageId, error) {
	if !target.Type.IsComponent() {
		return PackageId{}, zerr.With(ErrInvalidPackageType, "type", string(target.Type))
	}
	var matches []PackageId
	for _, id := range c.Dependencies.ByType(target.Type).Sorted() {
		if !id.SamePrefix(target.PublicId) {
			continue
		}
		if !target.PublicId.IsLatest() && id.Version() != target.PublicId.Version() {
			continue
		}
		matches = append(matches, PackageId{Type: target.Type, PublicId: id})
	}
	switch len(matches) {
	case 0:
		return PackageId{}, zerr.With(ErrPackageNotFound, "package", target.String())
	case 1:
		return matches[0], nil
	default:
		return PackageId{}, zerr.With(ErrAmbiguousPackage, "package", target.String())
	}
}

// Override returns the override recorded for exactly this component.
func (c *AgentConfiguration) Override(id PackageId) (map[string]any, bool) {
	cfg, ok := c.Overrides[id]
	return cfg, ok
}

// SetOverride records an override for the component.
func (c *AgentConfiguration) SetOverride(id PackageId, cfg map[string]any) {
	if c.Overrides == nil {
		c.Overrides = make(map[PackageId]map[string]any)
	}
	c.Overrides[id] = cfg
}

// DropOverride removes any override recorded for the component prefix.
func (c *AgentConfiguration) DropOverride(prefix PackagePrefix) {
	for id := range c.Overrides {
		if id.Prefix() == prefix {
			delete(c.Overrides, id)
		}
	}
}

// CloneOverrides returns a shallow copy of the override table.
func (c *AgentConfiguration) CloneOverrides() map[PackageId]map[string]any {
	if c.Overrides == nil {
		return nil
	}
	clone := make(map[PackageId]map[string]any, len(c.Overrides))
	for id, cfg := range c.Overrides {
		clone[id] = cfg
	}
	return clone
}
