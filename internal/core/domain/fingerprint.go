package domain

import "sort"

// Fingerprint maps slash separated relative file paths to their content hash.
type Fingerprint map[string]string

// Empty reports whether no path has been fingerprinted.
func (f Fingerprint) Empty() bool {
	return len(f) == 0
}

// Paths returns the fingerprinted paths in sorted order.
func (f Fingerprint) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Equal reports whether both fingerprints cover the same paths with the same
// hashes.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if len(f) != len(other) {
		return false
	}
	for p, h := range f {
		if oh, ok := other[p]; !ok || oh != h {
			return false
		}
	}
	return true
}

// Diff compares the recorded fingerprint against a computed one.
func (f Fingerprint) Diff(computed Fingerprint) FingerprintDiff {
	var d FingerprintDiff
	for _, p := range f.Paths() {
		h, ok := computed[p]
		switch {
		case !ok:
			d.Missing = append(d.Missing, p)
		case h != f[p]:
			d.Changed = append(d.Changed, p)
		}
	}
	for _, p := range computed.Paths() {
		if _, ok := f[p]; !ok {
			d.Extra = append(d.Extra, p)
		}
	}
	return d
}

// FingerprintDiff describes how a computed fingerprint deviates from a
// recorded one.
type FingerprintDiff struct {
	// Missing lists recorded paths absent on disk.
	Missing []string

	// Changed lists paths present on both sides with different hashes.
	Changed []string

	// Extra lists paths on disk absent from the recorded fingerprint.
	Extra []string
}

// Empty reports whether the diff carries no deviation.
func (d FingerprintDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Changed) == 0 && len(d.Extra) == 0
}

// IntegrityContext names the tree a fingerprint check runs against and
// selects the error reported on a mismatch.
type IntegrityContext string

const (
	// ContextVendor marks checks against a vendored package.
	ContextVendor IntegrityContext = "vendor"

	// ContextAgent marks checks against the agent root itself.
	ContextAgent IntegrityContext = "agent"

	// ContextComponent marks checks against a local package.
	ContextComponent IntegrityContext = "component"
)

// Err returns the sentinel reported for a failed check in this context.
func (c IntegrityContext) Err() error {
	switch c {
	case ContextAgent:
		return ErrAgentIntegrity
	case ContextComponent:
		return ErrComponentIntegrity
	default:
		return ErrVendorIntegrity
	}
}
