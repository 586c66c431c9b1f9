// Package domain contains the core domain model for agent packages: identities,
// versions, configurations, and the dependency graph with its algorithms.
package domain

import (
	"fmt"
	"regexp"
	"unique"

	"go.trai.ch/zerr"
)

// PackageType identifies the kind of a package.
type PackageType string

const (
	// PackageAgent is the root package type of a project.
	PackageAgent PackageType = "agent"
	// PackageProtocol is the protocol component type.
	PackageProtocol PackageType = "protocol"
	// PackageContract is the contract component type.
	PackageContract PackageType = "contract"
	// PackageConnection is the connection component type.
	PackageConnection PackageType = "connection"
	// PackageSkill is the skill component type.
	PackageSkill PackageType = "skill"
)

// ComponentTypes returns the non-agent package types in dependency-level order:
// protocols first, skills last. Iteration over typed sets follows this order so
// graph walks are deterministic.
func ComponentTypes() []PackageType {
	return []PackageType{PackageProtocol, PackageContract, PackageConnection, PackageSkill}
}

// ParsePackageType parses a package type from its textual form.
func ParsePackageType(s string) (PackageType, error) {
	switch t := PackageType(s); t {
	case PackageAgent, PackageProtocol, PackageContract, PackageConnection, PackageSkill:
		return t, nil
	default:
		return "", zerr.With(ErrInvalidPackageType, "type", s)
	}
}

// String returns the textual form of the package type.
func (t PackageType) String() string {
	return string(t)
}

// Plural returns the directory name used for packages of this type.
func (t PackageType) Plural() string {
	return string(t) + "s"
}

// IsComponent reports whether the type is a non-agent component type.
func (t PackageType) IsComponent() bool {
	return t != PackageAgent && t != ""
}

// ConfigFileName returns the manifest filename for packages of this type.
func (t PackageType) ConfigFileName() string {
	if t == PackageAgent {
		return AgentConfigName
	}
	return string(t) + ".yaml"
}

var simpleIDRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PublicId is the versioned identity of a package: author, name, a version
// that is either concrete semver or the "latest" wildcard, and an optional
// content hash. The hash is an integrity side-channel and never participates
// in dependency matching; WithoutHash strips it for use as a graph-node key.
type PublicId struct {
	author  unique.Handle[string]
	name    unique.Handle[string]
	version string
	hash    string
}

// NewPublicId creates a PublicId from its parts. The author and name must be
// simple identifiers and the version must be concrete semver or "latest".
func NewPublicId(author, name, version string) (PublicId, error) {
	if !simpleIDRe.MatchString(author) {
		return PublicId{}, zerr.With(ErrInvalidPublicId, "author", author)
	}
	if !simpleIDRe.MatchString(name) {
		return PublicId{}, zerr.With(ErrInvalidPublicId, "name", name)
	}
	if version != LatestVersion {
		if _, err := ParseVersion(version); err != nil {
			return PublicId{}, zerr.With(ErrInvalidPublicId, "version", version)
		}
	}
	return PublicId{
		author:  unique.Make(author),
		name:    unique.Make(name),
		version: version,
	}, nil
}

// MustNewPublicId is like NewPublicId but panics on invalid input.
// Intended for constants and tests.
func MustNewPublicId(author, name, version string) PublicId {
	id, err := NewPublicId(author, name, version)
	if err != nil {
		panic(err)
	}
	return id
}

// ParsePublicId parses the "author/name:version[:hash]" form.
// The version segment may be omitted, in which case it defaults to "latest".
func ParsePublicId(s string) (PublicId, error) {
	m := publicIdRe.FindStringSubmatch(s)
	if m == nil {
		return PublicId{}, zerr.With(ErrInvalidPublicId, "public_id", s)
	}
	version := m[3]
	if version == "" {
		version = LatestVersion
	}
	id, err := NewPublicId(m[1], m[2], version)
	if err != nil {
		return PublicId{}, err
	}
	id.hash = m[4]
	return id, nil
}

var publicIdRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)/([a-zA-Z_][a-zA-Z0-9_]*)(?::([^:]+))?(?::([a-zA-Z0-9]+))?$`)

// Author returns the author part of the identity.
func (p PublicId) Author() string {
	return handleString(p.author)
}

// Name returns the name part of the identity.
func (p PublicId) Name() string {
	return handleString(p.name)
}

// Version returns the version part of the identity.
func (p PublicId) Version() string {
	return p.version
}

// Hash returns the optional content hash, or the empty string.
func (p PublicId) Hash() string {
	return p.hash
}

// IsZero reports whether the identity is the zero value.
func (p PublicId) IsZero() bool {
	return p == PublicId{}
}

// IsLatest reports whether the version is the "latest" wildcard.
func (p PublicId) IsLatest() bool {
	return p.version == LatestVersion
}

// ToLatest returns the wildcard form of the identity, with the hash stripped.
func (p PublicId) ToLatest() PublicId {
	p.version = LatestVersion
	p.hash = ""
	return p
}

// WithoutHash returns the identity with the content hash stripped.
func (p PublicId) WithoutHash() PublicId {
	p.hash = ""
	return p
}

// WithHash returns the identity carrying the given content hash.
func (p PublicId) WithHash(hash string) PublicId {
	p.hash = hash
	return p
}

// WithVersion returns the identity with the version replaced.
func (p PublicId) WithVersion(version string) (PublicId, error) {
	return NewPublicId(p.Author(), p.Name(), version)
}

// SamePrefix reports whether the two identities share author and name,
// regardless of version and hash.
func (p PublicId) SamePrefix(other PublicId) bool {
	return p.author == other.author && p.name == other.name
}

// String formats the identity as "author/name:version[:hash]".
func (p PublicId) String() string {
	s := fmt.Sprintf("%s/%s:%s", p.Author(), p.Name(), p.version)
	if p.hash != "" {
		s += ":" + p.hash
	}
	return s
}

func handleString(h unique.Handle[string]) string {
	var zero unique.Handle[string]
	if h == zero {
		return ""
	}
	return h.Value()
}

// PackageId pairs a package type with a public identity. It is the node key
// of the dependency graph; graph keys always carry hash-stripped identities.
type PackageId struct {
	Type     PackageType
	PublicId PublicId
}

// NewPackageId creates a PackageId of the given type.
func NewPackageId(t PackageType, id PublicId) PackageId {
	return PackageId{Type: t, PublicId: id}
}

// ComponentId is a PackageId restricted to non-agent package types.
type ComponentId = PackageId

// NewComponentId creates a ComponentId, rejecting the agent type.
func NewComponentId(t PackageType, id PublicId) (ComponentId, error) {
	if !t.IsComponent() {
		return ComponentId{}, zerr.With(ErrInvalidPackageType, "type", t.String())
	}
	return PackageId{Type: t, PublicId: id}, nil
}

// WithoutHash returns the package id with the content hash stripped from its
// public identity.
func (id PackageId) WithoutHash() PackageId {
	id.PublicId = id.PublicId.WithoutHash()
	return id
}

// Prefix returns the version-independent prefix (type, author, name).
func (id PackageId) Prefix() PackagePrefix {
	return PackagePrefix{
		Type:   id.Type,
		Author: id.PublicId.Author(),
		Name:   id.PublicId.Name(),
	}
}

// String formats the package id as "type author/name:version".
func (id PackageId) String() string {
	return fmt.Sprintf("(%s, %s)", id.Type, id.PublicId)
}

// PackagePrefix identifies a package independent of its version: the unit of
// "same package, any version" comparisons.
type PackagePrefix struct {
	Type   PackageType
	Author string
	Name   string
}

// String formats the prefix as "type author/name".
func (p PackagePrefix) String() string {
	return fmt.Sprintf("(%s, %s/%s)", p.Type, p.Author, p.Name)
}
