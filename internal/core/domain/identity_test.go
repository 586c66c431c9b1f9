package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wharf/internal/core/domain"
)

func TestParsePublicId(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		author  string
		pkg     string
		version string
		hash    string
	}{
		{
			name:    "Author Name And Version",
			input:   "fetchai/http:0.5.0",
			author:  "fetchai",
			pkg:     "http",
			version: "0.5.0",
		},
		{
			name:    "Version Defaults To Latest",
			input:   "fetchai/http",
			author:  "fetchai",
			pkg:     "http",
			version: "latest",
		},
		{
			name:    "Explicit Latest",
			input:   "fetchai/http:latest",
			author:  "fetchai",
			pkg:     "http",
			version: "latest",
		},
		{
			name:    "With Hash",
			input:   "fetchai/http:0.5.0:QmPJ3badh",
			author:  "fetchai",
			pkg:     "http",
			version: "0.5.0",
			hash:    "QmPJ3badh",
		},
		{
			name:    "Prerelease Version",
			input:   "open_aea/p2p:1.0.0-rc1",
			author:  "open_aea",
			pkg:     "p2p",
			version: "1.0.0-rc1",
		},
		{name: "Empty", input: "", wantErr: true},
		{name: "Missing Slash", input: "fetchai", wantErr: true},
		{name: "Dash In Author", input: "fetch-ai/http:0.5.0", wantErr: true},
		{name: "Digit Leading Name", input: "fetchai/9http:0.5.0", wantErr: true},
		{name: "Garbage Version", input: "fetchai/http:not.a.version", wantErr: true},
		{name: "Extra Colon", input: "fetchai/http:0.5.0:abc:def", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := domain.ParsePublicId(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, domain.ErrInvalidPublicId)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.author, id.Author())
			assert.Equal(t, tt.pkg, id.Name())
			assert.Equal(t, tt.version, id.Version())
			assert.Equal(t, tt.hash, id.Hash())
		})
	}
}

func TestPublicId_String(t *testing.T) {
	id, err := domain.ParsePublicId("fetchai/http:0.5.0:QmPJ3badh")
	require.NoError(t, err)
	assert.Equal(t, "fetchai/http:0.5.0:QmPJ3badh", id.String())
	assert.Equal(t, "fetchai/http:0.5.0", id.WithoutHash().String())

	latest := domain.MustNewPublicId("fetchai", "http", domain.LatestVersion)
	assert.Equal(t, "fetchai/http:latest", latest.String())
}

func TestPublicId_Transforms(t *testing.T) {
	id := domain.MustNewPublicId("fetchai", "http", "0.5.0").WithHash("QmPJ3badh")

	t.Run("ToLatest Drops Version And Hash", func(t *testing.T) {
		latest := id.ToLatest()
		assert.True(t, latest.IsLatest())
		assert.Empty(t, latest.Hash())
		assert.Equal(t, "fetchai/http:latest", latest.String())
	})

	t.Run("WithoutHash Keeps Version", func(t *testing.T) {
		bare := id.WithoutHash()
		assert.Equal(t, "0.5.0", bare.Version())
		assert.Empty(t, bare.Hash())
	})

	t.Run("WithVersion", func(t *testing.T) {
		next, err := id.WithVersion("0.6.0")
		require.NoError(t, err)
		assert.Equal(t, "0.6.0", next.Version())

		_, err = id.WithVersion("nope")
		require.ErrorIs(t, err, domain.ErrInvalidPublicId)
	})

	t.Run("SamePrefix", func(t *testing.T) {
		other := domain.MustNewPublicId("fetchai", "http", "9.9.9")
		assert.True(t, id.SamePrefix(other))

		renamed := domain.MustNewPublicId("fetchai", "soef", "0.5.0")
		assert.False(t, id.SamePrefix(renamed))
	})

	t.Run("Zero Value", func(t *testing.T) {
		var zero domain.PublicId
		assert.True(t, zero.IsZero())
		assert.Empty(t, zero.Author())
		assert.Empty(t, zero.Name())
	})
}

func TestParsePackageType(t *testing.T) {
	for _, s := range []string{"agent", "protocol", "contract", "connection", "skill"} {
		pt, err := domain.ParsePackageType(s)
		require.NoError(t, err)
		assert.Equal(t, s, pt.String())
	}

	_, err := domain.ParsePackageType("plugin")
	require.ErrorIs(t, err, domain.ErrInvalidPackageType)
}

func TestPackageType_Properties(t *testing.T) {
	assert.Equal(t, "protocols", domain.PackageProtocol.Plural())
	assert.Equal(t, "protocol.yaml", domain.PackageProtocol.ConfigFileName())
	assert.Equal(t, domain.AgentConfigName, domain.PackageAgent.ConfigFileName())

	assert.False(t, domain.PackageAgent.IsComponent())
	for _, ct := range domain.ComponentTypes() {
		assert.True(t, ct.IsComponent())
	}
}

func TestPackageId(t *testing.T) {
	pub := domain.MustNewPublicId("fetchai", "http", "0.5.0")
	id := domain.NewPackageId(domain.PackageConnection, pub)

	assert.Equal(t, "(connection, fetchai/http:0.5.0)", id.String())
	assert.Equal(t, "(connection, fetchai/http)", id.Prefix().String())

	t.Run("Component Rejects Agent Type", func(t *testing.T) {
		_, err := domain.NewComponentId(domain.PackageAgent, pub)
		require.ErrorIs(t, err, domain.ErrInvalidPackageType)

		cid, err := domain.NewComponentId(domain.PackageSkill, pub)
		require.NoError(t, err)
		assert.Equal(t, domain.PackageSkill, cid.Type)
	})

	t.Run("Usable As Map Key", func(t *testing.T) {
		// Identical ids must collapse onto the same key even when parsed
		// separately.
		parsed, err := domain.ParsePublicId("fetchai/http:0.5.0")
		require.NoError(t, err)
		m := map[domain.PackageId]bool{id: true}
		assert.True(t, m[domain.NewPackageId(domain.PackageConnection, parsed)])
	})
}
