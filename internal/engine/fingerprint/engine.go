// Package fingerprint recomputes and checks content fingerprints across an
// agent project.
package fingerprint

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/wharf/internal/engine/depgraph"
)

// Engine stamps and verifies package fingerprints project-wide.
type Engine struct {
	store  ports.PackageStore
	finger ports.Fingerprinter
	log    ports.Logger
}

// NewEngine creates a new Engine.
func NewEngine(store ports.PackageStore, finger ports.Fingerprinter, log ports.Logger) *Engine {
	return &Engine{store: store, finger: finger, log: log}
}

// Stamp recomputes the fingerprint of one package and persists its manifest.
func (e *Engine) Stamp(cfg *domain.PackageConfiguration) error {
	fp, err := e.finger.Compute(cfg.Directory, cfg.IgnorePatterns(), nil)
	if err != nil {
		return err
	}
	cfg.Fingerprint = fp
	return e.store.Save(cfg)
}

// Verify recomputes the fingerprint of the package directory and compares it
// against the recorded one.
func (e *Engine) Verify(cfg *domain.PackageConfiguration, ictx domain.IntegrityContext) error {
	return e.finger.Verify(cfg, ictx)
}

// Refresh re-stamps the fingerprint of target, which may name the agent
// itself. Component targets resolve against the agent's declared set.
func (e *Engine) Refresh(sess domain.ProjectSession, target domain.PackageId) error {
	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}

	if target.Type == domain.PackageAgent {
		fp, err := e.finger.Compute(agent.Directory, agent.IgnorePatterns(), domain.AgentSkipDirs())
		if err != nil {
			return err
		}
		agent.Fingerprint = fp
		if err := e.store.SaveAgent(agent); err != nil {
			return err
		}
		e.log.Info("fingerprint updated", "package", agent.Id.String())
		return nil
	}

	resolved, err := agent.ResolveComponent(target)
	if err != nil {
		return err
	}
	cfg, err := depgraph.LoadComponent(e.store, sess, resolved)
	if err != nil {
		return err
	}
	if err := e.Stamp(cfg); err != nil {
		return err
	}
	e.log.Info("fingerprint updated", "package", resolved.String())
	return nil
}

// RefreshAll re-stamps every local package. Hashing runs concurrently;
// manifests are written sequentially afterwards.
func (e *Engine) RefreshAll(ctx context.Context, sess domain.ProjectSession) error {
	locals, err := e.store.LoadLocal(sess.WorkDir)
	if err != nil {
		return err
	}

	prints := make([]domain.Fingerprint, len(locals))
	g := new(errgroup.Group)
	for i, cfg := range locals {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := e.finger.Compute(cfg.Directory, cfg.IgnorePatterns(), nil)
			if err != nil {
				return err
			}
			prints[i] = fp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, cfg := range locals {
		cfg.Fingerprint = prints[i]
		if err := e.store.Save(cfg); err != nil {
			return err
		}
		e.log.Debug("fingerprint updated", "package", cfg.Id.String())
	}
	return nil
}

// VerifyAll checks the fingerprint of the agent (when stamped) and of every
// declared component. All integrity failures are collected and reported
// together rather than one at a time.
func (e *Engine) VerifyAll(ctx context.Context, sess domain.ProjectSession) error {
	agent, err := e.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = errors.Join(errs, err)
	}

	if !agent.Fingerprint.Empty() {
		if err := e.finger.Verify(&agent.PackageConfiguration, domain.ContextAgent); err != nil {
			record(err)
		}
	}

	g := new(errgroup.Group)
	for _, id := range agent.AllComponents() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := depgraph.LoadComponent(e.store, sess, id)
			if err != nil {
				record(err)
				return nil
			}
			ictx := domain.ContextComponent
			if cfg.Vendor {
				ictx = domain.ContextVendor
			}
			if err := e.finger.Verify(cfg, ictx); err != nil {
				record(err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errs
}
