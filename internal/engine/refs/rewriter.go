// Package refs rewrites package references after a component changes
// identity.
package refs

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
)

// Rewriter replaces occurrences of replaced component identifiers across the
// agent manifest, the local package manifests, and the local source files.
type Rewriter struct {
	store ports.PackageStore
	tree  ports.FileTree
	log   ports.Logger
}

// NewRewriter creates a new Rewriter.
func NewRewriter(store ports.PackageStore, tree ports.FileTree, log ports.Logger) *Rewriter {
	return &Rewriter{store: store, tree: tree, log: log}
}

// Apply rewrites every reference from an old id to its replacement in a
// single pass over the project, so a batch of replacements never rewrites a
// file against an intermediate identity. Vendor packages are left untouched.
// It returns the paths of the files that changed.
func (r *Rewriter) Apply(
	sess domain.ProjectSession,
	replacements map[domain.PackageId]domain.PackageId,
) ([]string, error) {
	if len(replacements) == 0 {
		return nil, nil
	}

	var changed []string

	agent, err := r.store.LoadAgent(sess.WorkDir)
	if err != nil {
		return nil, err
	}
	if updateAgent(agent, replacements) {
		if err := r.store.SaveAgent(agent); err != nil {
			return nil, err
		}
		changed = append(changed, filepath.Join(agent.Directory, domain.AgentConfigName))
	}

	locals, err := r.store.LoadLocal(sess.WorkDir)
	if err != nil {
		return nil, err
	}
	for _, cfg := range locals {
		if !updateDependencies(cfg, replacements) {
			continue
		}
		if err := r.store.Save(cfg); err != nil {
			return nil, err
		}
		changed = append(changed, filepath.Join(cfg.Directory, cfg.Id.Type.ConfigFileName()))
	}

	sources, err := r.rewriteImports(sess, replacements)
	if err != nil {
		return nil, err
	}
	changed = append(changed, sources...)

	if len(changed) > 0 {
		r.log.Debug("references rewritten", "files", len(changed))
	}
	return changed, nil
}

// updateAgent swaps replaced components in the agent's declared sets and
// re-keys their overrides to the new identity.
func updateAgent(
	agent *domain.AgentConfiguration,
	replacements map[domain.PackageId]domain.PackageId,
) bool {
	dirty := false
	for old, repl := range replacements {
		if !agent.HasComponent(old) {
			continue
		}
		agent.RemoveComponent(old)
		agent.AddComponent(repl)
		if override, ok := agent.Override(old); ok {
			agent.DropOverride(old.Prefix())
			agent.SetOverride(repl.WithoutHash(), override)
		}
		dirty = true
	}
	return dirty
}

// updateDependencies swaps replaced ids in a package's typed dependency
// sets, matching by prefix so stale version references are updated too.
func updateDependencies(
	cfg *domain.PackageConfiguration,
	replacements map[domain.PackageId]domain.PackageId,
) bool {
	dirty := false
	for old, repl := range replacements {
		deps := cfg.Dependencies.ByType(old.Type)
		if deps == nil {
			continue
		}
		for _, ref := range deps.Sorted() {
			if !ref.SamePrefix(old.PublicId) {
				continue
			}
			deps.Delete(ref)
			deps.Add(repl.PublicId.WithoutHash())
			dirty = true
		}
	}
	return dirty
}

// rewriteImports replaces dotted package paths in every non-vendor source
// file. The trailing word boundary keeps a name from matching packages whose
// name merely starts with it.
func (r *Rewriter) rewriteImports(
	sess domain.ProjectSession,
	replacements map[domain.PackageId]domain.PackageId,
) ([]string, error) {
	files, err := r.tree.WalkFiles(sess.WorkDir, "*.py")
	if err != nil {
		return nil, err
	}

	type rule struct {
		re   *regexp.Regexp
		repl string
	}
	rules := make([]rule, 0, len(replacements))
	for old, repl := range replacements {
		rules = append(rules, rule{
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(importPath(old)) + `\b`),
			repl: importPath(repl),
		})
	}

	vendorPrefix := filepath.Join(sess.WorkDir, domain.VendorDirName) + string(filepath.Separator)

	var changed []string
	for _, file := range files {
		if strings.HasPrefix(file, vendorPrefix) {
			continue
		}
		data, err := r.tree.ReadFile(file)
		if err != nil {
			return nil, err
		}
		content := string(data)
		rewritten := content
		for _, rl := range rules {
			rewritten = rl.re.ReplaceAllString(rewritten, rl.repl)
		}
		if rewritten == content {
			continue
		}
		if err := r.tree.WriteFile(file, []byte(rewritten)); err != nil {
			return nil, err
		}
		changed = append(changed, file)
	}
	return changed, nil
}

// importPath renders the dotted source path of a package, as used by import
// statements.
func importPath(id domain.PackageId) string {
	return fmt.Sprintf("%s.%s.%s.%s",
		domain.PackagesDirName, id.PublicId.Author(), id.Type.Plural(), id.PublicId.Name())
}
