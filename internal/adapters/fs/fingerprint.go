package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter computes content fingerprints of package trees.
type Fingerprinter struct {
	walker *Walker
}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter(walker *Walker) *Fingerprinter {
	return &Fingerprinter{walker: walker}
}

// Compute hashes every regular file under root not excluded by the ignore
// patterns, skipping the named top level directories. Keys are slash
// separated paths relative to root, so fingerprints compare identically
// across platforms.
func (f *Fingerprinter) Compute(root string, ignorePatterns, skipDirs []string) (domain.Fingerprint, error) {
	fp := make(domain.Fingerprint)
	for rel, err := range f.walker.WalkFiles(root, skipDirs) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk package tree"), "root", root)
		}

		ignored, err := matchesAny(rel, ignorePatterns)
		if err != nil {
			return nil, err
		}
		if ignored {
			continue
		}

		if _, ok := fp[rel]; ok {
			// Unreachable on a sane file system; normalization collided two
			// distinct files on the same key.
			return nil, zerr.With(domain.ErrDuplicateKey, "path", rel)
		}
		sum, err := f.hashFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		fp[rel] = sum
	}
	return fp, nil
}

// Verify recomputes the fingerprint of the package directory and compares it
// against the recorded one. A mismatch fails with the context specific
// integrity error carrying the deviating paths.
func (f *Fingerprinter) Verify(cfg *domain.PackageConfiguration, ictx domain.IntegrityContext) error {
	var skip []string
	if cfg.Id.Type == domain.PackageAgent {
		skip = domain.AgentSkipDirs()
	}

	computed, err := f.Compute(cfg.Directory, cfg.IgnorePatterns(), skip)
	if err != nil {
		return err
	}
	if cfg.Fingerprint.Equal(computed) {
		return nil
	}

	diff := cfg.Fingerprint.Diff(computed)
	err = zerr.With(ictx.Err(), "package", cfg.Id.String())
	err = zerr.With(err, "directory", cfg.Directory)
	if len(diff.Missing) > 0 {
		err = zerr.With(err, "missing", strings.Join(diff.Missing, " "))
	}
	if len(diff.Changed) > 0 {
		err = zerr.With(err, "changed", strings.Join(diff.Changed, " "))
	}
	if len(diff.Extra) > 0 {
		err = zerr.With(err, "extra", strings.Join(diff.Extra, " "))
	}
	return err
}

// hashFile computes the hex encoded content hash of a single file.
func (f *Fingerprinter) hashFile(path string) (string, error) {
	file, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// matchesAny matches the relative path against the patterns, both on the
// base name and on the full relative path.
func matchesAny(rel string, patterns []string) (bool, error) {
	base := filepath.Base(rel)
	for _, p := range patterns {
		for _, candidate := range []string{base, rel} {
			ok, err := filepath.Match(p, candidate)
			if err != nil {
				return false, zerr.With(zerr.Wrap(err, "invalid ignore pattern"), "pattern", p)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}
