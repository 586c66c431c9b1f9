// Package enginetest builds throwaway agent projects on disk for engine
// tests, wired through the real store and file system adapters.
package enginetest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.trai.ch/wharf/internal/adapters/config"
	"go.trai.ch/wharf/internal/adapters/fs"
	"go.trai.ch/wharf/internal/adapters/logger"
	"go.trai.ch/wharf/internal/core/domain"
)

// Project is an agent project rooted in a test temp directory, with a
// second temp directory acting as the package registry.
type Project struct {
	T        *testing.T
	Root     string
	Registry string
	Store    *config.Store
	Tree     *fs.Tree
	Finger   *fs.Fingerprinter
}

// New creates an empty project and registry.
func New(t *testing.T) *Project {
	t.Helper()
	walker := fs.NewWalker()
	return &Project{
		T:        t,
		Root:     t.TempDir(),
		Registry: t.TempDir(),
		Store:    config.NewStore(),
		Tree:     fs.NewTree(walker),
		Finger:   fs.NewFingerprinter(walker),
	}
}

// Session returns the invocation context pointing at the project.
func (p *Project) Session() domain.ProjectSession {
	return domain.ProjectSession{
		WorkDir:          p.Root,
		RegistryRoot:     p.Registry,
		Author:           "dev",
		FrameworkVersion: domain.MustParseVersion("1.0.0"),
	}
}

// Component describes one package fixture.
type Component struct {
	// Id is the package identity, parsed via Cid in tests.
	Id domain.PackageId

	// Deps lists the components the package declares as dependencies.
	Deps []domain.PackageId

	// Local places the package in the local area instead of vendor.
	Local bool

	// Files maps relative paths to contents. A source stub is always added.
	Files map[string]string

	// Framework overrides the default framework range.
	Framework string
}

// AddComponent writes the component into the project, declares nothing, and
// stamps its fingerprint. The returned configuration is the stored one.
func (p *Project) AddComponent(c Component) *domain.PackageConfiguration {
	p.T.Helper()
	sess := p.Session()
	dir := sess.VendorDir(c.Id)
	if c.Local {
		dir = sess.LocalDir(c.Id)
	}
	return p.writePackage(c, dir, !c.Local)
}

// Publish writes the component into the registry, one version per package.
func (p *Project) Publish(c Component) *domain.PackageConfiguration {
	p.T.Helper()
	return p.writePackage(c, p.Session().RegistryDir(c.Id), false)
}

func (p *Project) writePackage(c Component, dir string, vendor bool) *domain.PackageConfiguration {
	p.T.Helper()
	require.NoError(p.T, os.MkdirAll(dir, 0o750))

	files := map[string]string{
		domain.SourceStubName: "\"\"\"Package " + c.Id.PublicId.Name() + ".\"\"\"\n",
	}
	for rel, content := range c.Files {
		files[rel] = content
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(p.T, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(p.T, os.WriteFile(path, []byte(content), 0o644))
	}

	framework := c.Framework
	if framework == "" {
		framework = ">=1.0.0, <2.0.0"
	}
	cfg := &domain.PackageConfiguration{
		Id:           c.Id,
		Description:  "test fixture",
		Framework:    framework,
		Dependencies: domain.NewComponentDependencies(),
		Directory:    dir,
		Vendor:       vendor,
	}
	for _, dep := range c.Deps {
		cfg.Dependencies.ByType(dep.Type).Add(dep.PublicId)
	}
	require.NoError(p.T, p.Store.Save(cfg))

	fp, err := p.Finger.Compute(dir, cfg.IgnorePatterns(), nil)
	require.NoError(p.T, err)
	cfg.Fingerprint = fp
	require.NoError(p.T, p.Store.Save(cfg))
	return cfg
}

// DeclareAgent writes the agent manifest declaring the given components.
func (p *Project) DeclareAgent(components ...domain.PackageId) *domain.AgentConfiguration {
	p.T.Helper()
	agent := &domain.AgentConfiguration{
		PackageConfiguration: domain.PackageConfiguration{
			Id: domain.NewPackageId(domain.PackageAgent,
				domain.MustNewPublicId("dev", "proj", "0.1.0")),
			Description:  "test agent",
			Framework:    ">=1.0.0, <2.0.0",
			Dependencies: domain.NewComponentDependencies(),
			Directory:    p.Root,
		},
	}
	for _, id := range components {
		agent.AddComponent(id)
	}
	require.NoError(p.T, p.Store.SaveAgent(agent))
	return agent
}

// LoadAgent reads the agent manifest back.
func (p *Project) LoadAgent() *domain.AgentConfiguration {
	p.T.Helper()
	agent, err := p.Store.LoadAgent(p.Root)
	require.NoError(p.T, err)
	return agent
}

// Exists reports whether a path relative to the project root exists.
func (p *Project) Exists(rel string) bool {
	_, err := os.Lstat(filepath.Join(p.Root, filepath.FromSlash(rel)))
	return err == nil
}

// ReadFile returns the contents of a file relative to the project root.
func (p *Project) ReadFile(rel string) string {
	p.T.Helper()
	data, err := os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(rel))) //nolint:gosec // Test fixture path
	require.NoError(p.T, err)
	return string(data)
}

// Logger returns a logger that swallows all output.
func Logger() *logger.Logger {
	lg := logger.New()
	lg.SetOutput(io.Discard)
	return lg
}

// Cid parses a typed component id such as "skill dev/echo:0.1.0".
func Cid(t *testing.T, packageType domain.PackageType, id string) domain.PackageId {
	t.Helper()
	pub, err := domain.ParsePublicId(id)
	require.NoError(t, err)
	return domain.NewPackageId(packageType, pub)
}
