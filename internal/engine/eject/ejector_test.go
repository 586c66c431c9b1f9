package eject_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
	"go.trai.ch/wharf/internal/engine/eject"
	"go.trai.ch/wharf/internal/engine/enginetest"
	"go.trai.ch/wharf/internal/engine/fingerprint"
	"go.trai.ch/wharf/internal/engine/refs"
)

func newEjector(p *enginetest.Project) *eject.Ejector {
	fingers := fingerprint.NewEngine(p.Store, p.Finger, enginetest.Logger())
	rewriter := refs.NewRewriter(p.Store, p.Tree, enginetest.Logger())
	return eject.NewEjector(
		p.Store, p.Tree, depgraph.NewBuilder(p.Store), fingers, rewriter, enginetest.Logger(),
	)
}

func verifyAll(t *testing.T, p *enginetest.Project) {
	t.Helper()
	fingers := fingerprint.NewEngine(p.Store, p.Finger, enginetest.Logger())
	require.NoError(t, fingers.VerifyAll(context.Background(), p.Session()))
}

func TestEjector_Eject(t *testing.T) {
	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	p.AddComponent(enginetest.Component{
		Id: echo,
		Files: map[string]string{
			domain.SourceStubName: "\"\"\"Skill echo.\"\"\"\n" +
				"PUBLIC_ID = PublicId.from_str(\"acme/echo:0.5.0\")\n",
		},
	})
	p.DeclareAgent(echo)

	calls := 0
	confirm := func(string) bool { calls++; return true }
	newId, err := newEjector(p).Eject(p.Session(), echo, confirm, eject.Options{})
	require.NoError(t, err)

	want := enginetest.Cid(t, domain.PackageSkill, "dev/echo:0.1.0")
	assert.Equal(t, want, newId)
	assert.Zero(t, calls, "no dependents, no prompt")

	assert.False(t, p.Exists("vendor/acme/skills/echo"))
	assert.True(t, p.Exists("skills/echo"))

	agent := p.LoadAgent()
	assert.False(t, agent.HasComponent(echo))
	assert.True(t, agent.HasComponent(want))

	cfg, err := p.Store.Load(domain.PackageSkill, filepath.Join(p.Root, "skills", "echo"))
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Id)
	assert.False(t, cfg.Vendor)

	stub := p.ReadFile("skills/echo/" + domain.SourceStubName)
	assert.Contains(t, stub, `PUBLIC_ID = PublicId.from_str("dev/echo:0.1.0")`)
	assert.Contains(t, stub, `"""Skill echo."""`)

	verifyAll(t, p)
}

func TestEjector_Eject_CascadesThroughDependents(t *testing.T) {
	p := enginetest.New(t)
	ping := enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.0.0")
	alpha := enginetest.Cid(t, domain.PackageSkill, "acme/alpha:0.2.0")
	p.AddComponent(enginetest.Component{Id: ping})
	p.AddComponent(enginetest.Component{
		Id:   alpha,
		Deps: []domain.PackageId{ping},
		Files: map[string]string{
			"handlers.py": "from packages.acme.protocols.ping.message import PingMessage\n",
		},
	})
	p.DeclareAgent(ping, alpha)

	var prompts []string
	confirm := func(prompt string) bool { prompts = append(prompts, prompt); return true }
	newId, err := newEjector(p).Eject(p.Session(), ping, confirm, eject.Options{})
	require.NoError(t, err)

	newPing := enginetest.Cid(t, domain.PackageProtocol, "dev/ping:0.1.0")
	newAlpha := enginetest.Cid(t, domain.PackageSkill, "dev/alpha:0.1.0")
	assert.Equal(t, newPing, newId)

	require.Len(t, prompts, 1, "one prompt covers the whole cascade")
	assert.Contains(t, prompts[0], "acme/alpha:0.2.0")

	assert.False(t, p.Exists("vendor/acme/protocols/ping"))
	assert.False(t, p.Exists("vendor/acme/skills/alpha"))
	assert.True(t, p.Exists("protocols/ping"))
	assert.True(t, p.Exists("skills/alpha"))

	agent := p.LoadAgent()
	assert.True(t, agent.HasComponent(newPing))
	assert.True(t, agent.HasComponent(newAlpha))
	assert.Len(t, agent.AllComponents(), 2)

	cfg, err := p.Store.Load(domain.PackageSkill, filepath.Join(p.Root, "skills", "alpha"))
	require.NoError(t, err)
	assert.True(t, cfg.Dependencies.ByType(domain.PackageProtocol).Has(newPing.PublicId))

	source := p.ReadFile("skills/alpha/handlers.py")
	assert.Contains(t, source, "packages.dev.protocols.ping.message")

	verifyAll(t, p)
}

func TestEjector_Eject_DeclinedLeavesProjectUntouched(t *testing.T) {
	p := enginetest.New(t)
	ping := enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.0.0")
	alpha := enginetest.Cid(t, domain.PackageSkill, "acme/alpha:0.2.0")
	p.AddComponent(enginetest.Component{Id: ping})
	p.AddComponent(enginetest.Component{Id: alpha, Deps: []domain.PackageId{ping}})
	p.DeclareAgent(ping, alpha)

	decline := func(string) bool { return false }
	_, err := newEjector(p).Eject(p.Session(), ping, decline, eject.Options{})
	require.ErrorIs(t, err, domain.ErrAborted)

	assert.True(t, p.Exists("vendor/acme/protocols/ping"))
	assert.True(t, p.Exists("vendor/acme/skills/alpha"))
	assert.False(t, p.Exists("protocols/ping"))
	assert.False(t, p.Exists("skills/alpha"))
	assert.True(t, p.LoadAgent().HasComponent(ping))
}

func TestEjector_Eject_Errors(t *testing.T) {
	t.Run("Not A Vendor Package", func(t *testing.T) {
		p := enginetest.New(t)
		echo := enginetest.Cid(t, domain.PackageSkill, "dev/echo:0.1.0")
		p.AddComponent(enginetest.Component{Id: echo, Local: true})
		p.DeclareAgent(echo)

		_, err := newEjector(p).Eject(p.Session(), echo, ports.AlwaysConfirm, eject.Options{})
		require.ErrorIs(t, err, domain.ErrPackageNotFound)
	})

	t.Run("Occupied Local Slot Survives", func(t *testing.T) {
		p := enginetest.New(t)
		echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
		p.AddComponent(enginetest.Component{Id: echo})
		p.DeclareAgent(echo)

		occupied := filepath.Join(p.Root, "skills", "echo")
		require.NoError(t, os.MkdirAll(occupied, 0o750))
		marker := filepath.Join(occupied, "keep.txt")
		require.NoError(t, os.WriteFile(marker, []byte("mine"), 0o644))

		_, err := newEjector(p).Eject(p.Session(), echo, ports.AlwaysConfirm, eject.Options{})
		require.ErrorIs(t, err, domain.ErrDestinationExists)

		assert.FileExists(t, marker)
		assert.True(t, p.Exists("vendor/acme/skills/echo"))
	})
}

func TestEjector_Eject_WithSymlinks(t *testing.T) {
	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	p.AddComponent(enginetest.Component{Id: echo})
	p.DeclareAgent(echo)

	_, err := newEjector(p).Eject(p.Session(), echo, ports.AlwaysConfirm, eject.Options{WithSymlinks: true})
	require.NoError(t, err)

	slot, err := os.Lstat(filepath.Join(p.Root, "vendor", "acme", "skills", "echo"))
	require.NoError(t, err)
	assert.NotZero(t, slot.Mode()&os.ModeSymlink, "vendor slot links back to the local copy")

	// Link targets are stored relative so the tree stays relocatable.
	target, err := os.Readlink(filepath.Join(p.Root, "vendor", "acme", "skills", "echo"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "..", "skills", "echo"), target)

	link, err := os.Readlink(filepath.Join(p.Root, domain.PackagesDirName))
	require.NoError(t, err)
	assert.Equal(t, domain.VendorDirName, link)
}

func TestEjector_Eject_KeepsSatisfiedFrameworkRange(t *testing.T) {
	p := enginetest.New(t)
	echo := enginetest.Cid(t, domain.PackageSkill, "acme/echo:0.5.0")
	p.AddComponent(enginetest.Component{Id: echo, Framework: ">=0.9.0, <3.0.0"})
	p.DeclareAgent(echo)

	_, err := newEjector(p).Eject(p.Session(), echo, ports.AlwaysConfirm, eject.Options{})
	require.NoError(t, err)

	cfg, err := p.Store.Load(domain.PackageSkill, filepath.Join(p.Root, "skills", "echo"))
	require.NoError(t, err)
	assert.Equal(t, ">=0.9.0, <3.0.0", cfg.Framework)
}

func TestDependentsPromptListsCascade(t *testing.T) {
	p := enginetest.New(t)
	ping := enginetest.Cid(t, domain.PackageProtocol, "acme/ping:1.0.0")
	alpha := enginetest.Cid(t, domain.PackageSkill, "acme/alpha:0.2.0")
	beta := enginetest.Cid(t, domain.PackageSkill, "acme/beta:0.3.0")
	p.AddComponent(enginetest.Component{Id: ping})
	p.AddComponent(enginetest.Component{Id: alpha, Deps: []domain.PackageId{ping}})
	p.AddComponent(enginetest.Component{Id: beta, Deps: []domain.PackageId{alpha}})
	p.DeclareAgent(ping, alpha, beta)

	var prompt string
	confirm := func(s string) bool { prompt = s; return true }
	_, err := newEjector(p).Eject(p.Session(), ping, confirm, eject.Options{})
	require.NoError(t, err)

	// Deepest dependent first: beta requires alpha requires ping.
	betaAt := strings.Index(prompt, "acme/beta:0.3.0")
	alphaAt := strings.Index(prompt, "acme/alpha:0.2.0")
	require.GreaterOrEqual(t, betaAt, 0)
	require.GreaterOrEqual(t, alphaAt, 0)
	assert.Less(t, betaAt, alphaAt)

	assert.True(t, p.Exists("skills/beta"))
	assert.True(t, p.Exists("skills/alpha"))
	assert.True(t, p.Exists("protocols/ping"))
	verifyAll(t, p)
}
