package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wharf/internal/core/domain"
)

func TestFingerprint_Equal(t *testing.T) {
	a := domain.Fingerprint{"handlers.py": "aa11", "dialogues.py": "bb22"}
	b := domain.Fingerprint{"dialogues.py": "bb22", "handlers.py": "aa11"}

	assert.True(t, a.Equal(b))

	b["handlers.py"] = "cc33"
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(domain.Fingerprint{"handlers.py": "aa11"}))
}

func TestFingerprint_Diff(t *testing.T) {
	recorded := domain.Fingerprint{
		"handlers.py":  "aa11",
		"dialogues.py": "bb22",
		"deleted.py":   "dd44",
	}
	computed := domain.Fingerprint{
		"handlers.py":  "aa11",
		"dialogues.py": "ee55",
		"untracked.py": "ff66",
	}

	d := recorded.Diff(computed)
	assert.Equal(t, []string{"deleted.py"}, d.Missing)
	assert.Equal(t, []string{"dialogues.py"}, d.Changed)
	assert.Equal(t, []string{"untracked.py"}, d.Extra)
	assert.False(t, d.Empty())

	same := recorded.Diff(recorded)
	assert.True(t, same.Empty())
}

func TestFingerprint_Paths(t *testing.T) {
	f := domain.Fingerprint{"b.py": "x", "a.py": "y", "sub/c.py": "z"}
	assert.Equal(t, []string{"a.py", "b.py", "sub/c.py"}, f.Paths())
}

func TestIntegrityContext_Err(t *testing.T) {
	require.ErrorIs(t, domain.ContextVendor.Err(), domain.ErrVendorIntegrity)
	require.ErrorIs(t, domain.ContextAgent.Err(), domain.ErrAgentIntegrity)
	require.ErrorIs(t, domain.ContextComponent.Err(), domain.ErrComponentIntegrity)
}
