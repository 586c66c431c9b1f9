package upgrade_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/wharf/internal/adapters/registry"
	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/core/ports/mocks"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/enginetest"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
	"go.trai.ch/wharf/internal/engine/remove"
	"go.trai.ch/wharf/internal/engine/upgrade"
)

func newEngine(p *enginetest.Project) *upgrade.Engine {
	return newEngineWith(p, registry.NewLocalRegistry(p.Store, p.Tree))
}

func newEngineWith(p *enginetest.Project, reg ports.Registry) *upgrade.Engine {
	log := enginetest.Logger()
	graphs := depgraph.NewBuilder(p.Store)
	remover := remove.NewRemover(p.Store, p.Tree, p.Finger, graphs, log)
	fingers := fingerprint.NewEngine(p.Store, p.Finger, log)
	rewriter := refs.NewRewriter(p.Store, p.Tree, log)
	ejector := eject.NewEjector(p.Store, p.Tree, graphs, fingers, rewriter, log)
	return upgrade.NewEngine(p.Store, p.Tree, reg, graphs, remover, ejector, fingers, rewriter, log)
}

func verifyAll(t *testing.T, p *enginetest.Project) {
	t.Helper()
	fingers := fingerprint.NewEngine(p.Store, p.Finger, enginetest.Logger())
	require.NoError(t, fingers.VerifyAll(context.Background(), p.Session()))
}

func latestOf(id domain.PackageId) domain.PackageId {
	return domain.NewPackageId(id.Type, id.PublicId.ToLatest())
}

func TestEngine_UpgradeItem(t *testing.T) {
	p := enginetest.New(t)
	ping := enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.0.0")
	pong := enginetest.Cid(t, domain.PackageProtocol, "acme/pong:2.0.0")
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	echoNext := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.6.0")
	p.AddComponent(enginetest.Component{Id: ping})
	p.AddComponent(enginetest.Component{Id: echo, Deps: []domain.PackageId{ping}})
	agent := p.DeclareAgent(ping, echo)
	agent.SetOverride(echo, map[string]any{"greeting": "hi"})
	require.NoError(t, p.Store.SaveAgent(agent))

	p.Publish(enginetest.Component{Id: pong})
	p.Publish(enginetest.Component{Id: echoNext, Deps: []domain.PackageId{pong}})

	newId, err := newEngine(p).UpgradeItem(p.Session(), latestOf(echo))
	require.NoError(t, err)
	assert.Equal(t, echoNext, newId)

	reloaded := p.LoadAgent()
	assert.True(t, reloaded.HasComponent(echoNext))
	assert.False(t, reloaded.HasComponent(echo))
	assert.True(t, reloaded.HasComponent(pong), "new dependencies are pulled in")
	assert.False(t, reloaded.HasComponent(ping), "stranded dependencies are removed")

	assert.True(t, p.Exists("vendor/acme/protocols/pong"))
	assert.False(t, p.Exists("vendor/acme/protocols/ping"))
	cfg, err := p.Store.Load(domain.PackageSkill, filepath.Join(p.Root, "vendor", "acme", "skills", "echo"))
	require.NoError(t, err)
	assert.Equal(t, echoNext, cfg.Id)

	override, ok := reloaded.Override(echoNext)
	require.True(t, ok, "override follows the upgraded identity")
	assert.Equal(t, "hi", override["greeting"])

	verifyAll(t, p)
}

func TestEngine_UpgradeItem_ExplicitVersion(t *testing.T) {
	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	echoNext := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.6.0")
	p.AddComponent(enginetest.Component{Id: echo})
	p.DeclareAgent(echo)
	p.Publish(enginetest.Component{Id: echoNext})

	newId, err := newEngine(p).UpgradeItem(p.Session(), echoNext)
	require.NoError(t, err)
	assert.Equal(t, echoNext, newId)
	assert.True(t, p.LoadAgent().HasComponent(echoNext))
}

func TestEngine_UpgradeItem_UnavailableVersionLeavesTargetRemoved(t *testing.T) {
	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	p.AddComponent(enginetest.Component{Id: echo})
	p.DeclareAgent(echo)
	p.Publish(enginetest.Component{Id: enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.6.0")})

	missing := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.7.0")
	_, err := newEngine(p).UpgradeItem(p.Session(), missing)
	require.ErrorIs(t, err, domain.ErrPackageNotFound)

	// The flow is remove then fetch; a failed fetch is not rolled back.
	assert.False(t, p.LoadAgent().HasComponent(echo))
}

func TestEngine_UpgradeItem_Errors(t *testing.T) {
	setup := func(t *testing.T) (*enginetest.Project, domain.PackageId) {
		t.Helper()
		p := enginetest.New(t)
		echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
		p.AddComponent(enginetest.Component{Id: echo})
		p.DeclareAgent(echo)
		return p, echo
	}

	t.Run("Explicit Version Already Installed", func(t *testing.T) {
		p, echo := setup(t)

		_, err := newEngine(p).UpgradeItem(p.Session(), echo)
		require.ErrorIs(t, err, domain.ErrAlreadyLatest)
	})

	t.Run("Registry Holds No Newer Version", func(t *testing.T) {
		p, echo := setup(t)
		p.Publish(enginetest.Component{Id: echo})

		_, err := newEngine(p).UpgradeItem(p.Session(), latestOf(echo))
		require.ErrorIs(t, err, domain.ErrAlreadyLatest)
	})

	t.Run("Unknown To Registry", func(t *testing.T) {
		p, echo := setup(t)

		_, err := newEngine(p).UpgradeItem(p.Session(), latestOf(echo))
		require.ErrorIs(t, err, domain.ErrPackageNotFound)
	})

	t.Run("Required By Another Package", func(t *testing.T) {
		p := enginetest.New(t)
		ping := enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.0.0")
		alpha := enginetest.Cid(t, domain.PackageSkill, "acme/alpha:0.2.0")
		p.AddComponent(enginetest.Component{Id: ping})
		p.AddComponent(enginetest.Component{Id: alpha, Deps: []domain.PackageId{ping}})
		p.DeclareAgent(ping, alpha)
		p.Publish(enginetest.Component{Id: enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.1.0")})

		_, err := newEngine(p).UpgradeItem(p.Session(), latestOf(ping))
		require.ErrorIs(t, err, domain.ErrRequiredByOthers)
		assert.True(t, p.Exists("vendor/acme/protocols/ping"))
	})

	t.Run("Local Copy", func(t *testing.T) {
		p := enginetest.New(t)
		echo := enginetest.Cid(t, domain.PackageSkill, "dev/echo:0.1.0")
		p.AddComponent(enginetest.Component{Id: echo, Local: true})
		p.DeclareAgent(echo)

		_, err := newEngine(p).UpgradeItem(p.Session(), latestOf(echo))
		require.ErrorIs(t, err, domain.ErrVendorConflict)
	})
}

func TestEngine_UpgradeItem_RegistryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	p.AddComponent(enginetest.Component{Id: echo})
	p.DeclareAgent(echo)

	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().
		ResolveLatest(gomock.Any(), echo.Prefix()).
		Return(domain.PublicId{}, domain.ErrRegistryLookup)

	_, err := newEngineWith(p, reg).UpgradeItem(p.Session(), latestOf(echo))
	require.ErrorIs(t, err, domain.ErrRegistryLookup)
	assert.True(t, p.LoadAgent().HasComponent(echo), "lookup failures surface before anything is touched")
}
