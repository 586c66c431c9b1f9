package domain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

const (
	// LatestVersion is the wildcard version that matches any concrete version
	// of the same package prefix during lookup. It is never stored as a
	// concrete value.
	LatestVersion = "latest"

	// DefaultInitialVersion is the version assigned to freshly forked local
	// packages.
	DefaultInitialVersion = "0.1.0"

	// DefaultFrameworkVersion is the framework version assumed when the
	// running binary does not carry a semver build version.
	DefaultFrameworkVersion = "1.0.0"
)

// ParseVersion parses a concrete semver version string.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, zerr.With(ErrInvalidVersion, "version", s)
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on invalid input.
// Intended for constants and tests.
func MustParseVersion(s string) *semver.Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseConstraint parses a version constraint such as ">=1.0.0, <2.0.0".
func ParseConstraint(s string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, zerr.With(ErrInvalidVersion, "constraint", s)
	}
	return c, nil
}

// Satisfies reports whether the version satisfies the constraint string.
// An empty constraint admits every version.
func Satisfies(v *semver.Version, constraint string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	c, err := ParseConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

// CompareVersions compares two concrete version strings by semver precedence.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// ComputeCompatibilityRange derives the framework compatibility constraint
// admitting the given version up to, but excluding, the next major release.
func ComputeCompatibilityRange(v *semver.Version) string {
	next := v.IncMajor()
	return fmt.Sprintf(">=%s, <%s", v.String(), next.String())
}

// EnsureCompatibilityRange keeps the stored framework constraint when the
// running framework version still satisfies it and recomputes it otherwise.
// An unparsable stored constraint is recomputed as well.
func EnsureCompatibilityRange(v *semver.Version, stored string) string {
	if v == nil {
		return stored
	}
	ok, err := Satisfies(v, stored)
	if err == nil && ok {
		return stored
	}
	return ComputeCompatibilityRange(v)
}
