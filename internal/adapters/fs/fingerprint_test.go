package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wharf/internal/adapters/fs"
	"go.trai.ch/wharf/internal/core/domain"
)

func TestFingerprinter_Compute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "handlers.py", "one")
	writeFile(t, root, "sub/dialogues.py", "two")
	writeFile(t, root, "skill.yaml", "manifest")

	f := fs.NewFingerprinter(fs.NewWalker())

	fp, err := f.Compute(root, []string{"skill.yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"handlers.py", "sub/dialogues.py"}, fp.Paths())
	for _, hash := range fp {
		assert.Len(t, hash, 16)
	}

	t.Run("Deterministic", func(t *testing.T) {
		again, err := f.Compute(root, []string{"skill.yaml"}, nil)
		require.NoError(t, err)
		assert.True(t, fp.Equal(again))
	})

	t.Run("Content Change Changes Hash", func(t *testing.T) {
		writeFile(t, root, "handlers.py", "one!")
		changed, err := f.Compute(root, []string{"skill.yaml"}, nil)
		require.NoError(t, err)
		assert.NotEqual(t, fp["handlers.py"], changed["handlers.py"])
		assert.Equal(t, fp["sub/dialogues.py"], changed["sub/dialogues.py"])
		writeFile(t, root, "handlers.py", "one")
	})

	t.Run("Rename Moves Key Keeps Hash", func(t *testing.T) {
		require.NoError(t, os.Rename(
			filepath.Join(root, "handlers.py"),
			filepath.Join(root, "renamed.py"),
		))
		renamed, err := f.Compute(root, []string{"skill.yaml"}, nil)
		require.NoError(t, err)
		assert.NotContains(t, renamed, "handlers.py")
		assert.Equal(t, fp["handlers.py"], renamed["renamed.py"])
	})
}

func TestFingerprinter_Verify(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "handlers.py", "one")

	f := fs.NewFingerprinter(fs.NewWalker())
	fp, err := f.Compute(root, domain.DefaultFingerprintIgnore(), nil)
	require.NoError(t, err)

	cfg := &domain.PackageConfiguration{
		Id: domain.NewPackageId(domain.PackageSkill,
			domain.MustNewPublicId("acme", "echo", "0.1.0")),
		Fingerprint: fp,
		Directory:   root,
	}
	require.NoError(t, f.Verify(cfg, domain.ContextVendor))

	t.Run("Tampered Content", func(t *testing.T) {
		writeFile(t, root, "handlers.py", "tampered")
		defer writeFile(t, root, "handlers.py", "one")

		err := f.Verify(cfg, domain.ContextVendor)
		require.ErrorIs(t, err, domain.ErrVendorIntegrity)
	})

	t.Run("Extra File", func(t *testing.T) {
		writeFile(t, root, "rogue.py", "x")
		defer func() { require.NoError(t, os.Remove(filepath.Join(root, "rogue.py"))) }()

		err := f.Verify(cfg, domain.ContextComponent)
		require.ErrorIs(t, err, domain.ErrComponentIntegrity)
	})
}

func TestFingerprinter_Verify_AgentSkipsPackageDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "m")
	writeFile(t, root, "vendor/acme/skills/echo/handlers.py", "x")
	writeFile(t, root, "skills/local/handlers.py", "y")

	f := fs.NewFingerprinter(fs.NewWalker())
	fp, err := f.Compute(root, domain.DefaultFingerprintIgnore(), domain.AgentSkipDirs())
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, fp.Paths())

	cfg := &domain.AgentConfiguration{
		PackageConfiguration: domain.PackageConfiguration{
			Id: domain.NewPackageId(domain.PackageAgent,
				domain.MustNewPublicId("acme", "trader", "0.1.0")),
			Fingerprint: fp,
			Directory:   root,
		},
	}
	require.NoError(t, f.Verify(&cfg.PackageConfiguration, domain.ContextAgent))

	// Package content does not participate in the agent fingerprint.
	writeFile(t, root, "vendor/acme/skills/echo/handlers.py", "tampered")
	require.NoError(t, f.Verify(&cfg.PackageConfiguration, domain.ContextAgent))
}
