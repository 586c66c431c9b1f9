package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wharf/internal/core/domain"
)

func testAgentConfig() *domain.AgentConfiguration {
	cfg := &domain.AgentConfiguration{
		PackageConfiguration: domain.PackageConfiguration{
			Id: domain.NewPackageId(domain.PackageAgent,
				domain.MustNewPublicId("acme", "trader", "0.1.0")),
			Dependencies: domain.NewComponentDependencies(),
		},
	}
	cfg.AddComponent(domain.NewPackageId(domain.PackageProtocol,
		domain.MustNewPublicId("acme", "ping", "0.1.0")))
	cfg.AddComponent(domain.NewPackageId(domain.PackageSkill,
		domain.MustNewPublicId("acme", "echo", "0.2.0")))
	return cfg
}

func TestComponentDependencies_ByType(t *testing.T) {
	deps := domain.NewComponentDependencies()
	deps.ByType(domain.PackageConnection).Add(domain.MustNewPublicId("acme", "http", "0.5.0"))

	assert.True(t, deps.Connections.Has(domain.MustNewPublicId("acme", "http", "0.5.0")))
	assert.Nil(t, deps.ByType(domain.PackageAgent))
	assert.Equal(t, 1, deps.Count())
}

func TestComponentDependencies_Components(t *testing.T) {
	deps := domain.NewComponentDependencies()
	deps.Skills.Add(domain.MustNewPublicId("acme", "echo", "0.1.0"))
	deps.Protocols.Add(domain.MustNewPublicId("acme", "pong", "0.1.0"))
	deps.Protocols.Add(domain.MustNewPublicId("acme", "ping", "0.1.0"))

	// Types in declaration order, identifiers sorted within a type.
	got := deps.Components()
	require.Len(t, got, 3)
	assert.Equal(t, "ping", got[0].PublicId.Name())
	assert.Equal(t, "pong", got[1].PublicId.Name())
	assert.Equal(t, domain.PackageSkill, got[2].Type)
}

func TestAgentConfiguration_ResolveComponent(t *testing.T) {
	cfg := testAgentConfig()

	tests := []struct {
		name    string
		target  string
		typ     domain.PackageType
		wantErr error
		want    string
	}{
		{
			name:   "Latest Matches Declared Version",
			target: "acme/ping:latest",
			typ:    domain.PackageProtocol,
			want:   "acme/ping:0.1.0",
		},
		{
			name:   "Exact Version",
			target: "acme/echo:0.2.0",
			typ:    domain.PackageSkill,
			want:   "acme/echo:0.2.0",
		},
		{
			name:    "Wrong Version",
			target:  "acme/echo:0.9.0",
			typ:     domain.PackageSkill,
			wantErr: domain.ErrPackageNotFound,
		},
		{
			name:    "Unknown Package",
			target:  "acme/absent:latest",
			typ:     domain.PackageProtocol,
			wantErr: domain.ErrPackageNotFound,
		},
		{
			name:    "Wrong Type",
			target:  "acme/ping:latest",
			typ:     domain.PackageSkill,
			wantErr: domain.ErrPackageNotFound,
		},
		{
			name:    "Agent Type Rejected",
			target:  "acme/ping:latest",
			typ:     domain.PackageAgent,
			wantErr: domain.ErrInvalidPackageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := domain.ParsePublicId(tt.target)
			require.NoError(t, err)

			got, err := cfg.ResolveComponent(domain.PackageId{Type: tt.typ, PublicId: pub})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.PublicId.String())
		})
	}
}

func TestAgentConfiguration_AddRemove(t *testing.T) {
	cfg := testAgentConfig()
	id := domain.NewPackageId(domain.PackageContract,
		domain.MustNewPublicId("acme", "erc20", "0.3.0").WithHash("QmAbC123"))

	cfg.AddComponent(id)

	// Declarations never carry hashes.
	assert.False(t, cfg.HasComponent(id))
	assert.True(t, cfg.HasComponent(id.WithoutHash()))

	cfg.RemoveComponent(id.WithoutHash())
	assert.False(t, cfg.HasComponent(id.WithoutHash()))
}

func TestAgentConfiguration_Overrides(t *testing.T) {
	cfg := testAgentConfig()
	ping := domain.NewPackageId(domain.PackageProtocol,
		domain.MustNewPublicId("acme", "ping", "0.1.0"))

	cfg.SetOverride(ping, map[string]any{"timeout": 5})

	got, ok := cfg.Override(ping)
	require.True(t, ok)
	assert.Equal(t, 5, got["timeout"])

	t.Run("Clone Is Independent", func(t *testing.T) {
		clone := cfg.CloneOverrides()
		cfg.DropOverride(ping.Prefix())
		assert.Contains(t, clone, ping)
	})

	t.Run("Drop Matches Any Version", func(t *testing.T) {
		newer := domain.NewPackageId(domain.PackageProtocol,
			domain.MustNewPublicId("acme", "ping", "0.9.0"))
		cfg.SetOverride(newer, map[string]any{"timeout": 9})

		cfg.DropOverride(ping.Prefix())
		_, ok := cfg.Override(newer)
		assert.False(t, ok)
	})
}
