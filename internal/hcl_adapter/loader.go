package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridwords/internal/config"
	"github.com/specialistvlad/gridwords/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	env map[string]string
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithEnv replaces the process environment seen by env.* expressions.
func WithEnv(env map[string]string) LoaderOption {
	return func(l *Loader) { l.env = env }
}

// NewLoader creates a new HCL configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.env == nil {
		l.env = environ()
	}
	return l
}

// Load parses every .hcl file found in paths and merges their blocks. A
// block may appear in at most one file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	evalCtx, err := newEvalContext(l.env)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	merged := &fileRoot{}
	origin := map[string]string{}

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := mergeRoot(merged, &root, file, origin); err != nil {
			return nil, err
		}
	}

	m, err := l.translate(ctx, merged, evalCtx)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(hclFiles))
	return m, nil
}

// mergeRoot copies every block of src into dst, refusing duplicates.
func mergeRoot(dst, src *fileRoot, file string, origin map[string]string) error {
	take := func(name string, present bool, assign func()) error {
		if !present {
			return nil
		}
		if prev, ok := origin[name]; ok {
			return fmt.Errorf("duplicate %q block in %s, already defined in %s", name, file, prev)
		}
		origin[name] = file
		assign()
		return nil
	}

	steps := []struct {
		name    string
		present bool
		assign  func()
	}{
		{"run", src.Run != nil, func() { dst.Run = src.Run }},
		{"grid", src.Grid != nil, func() { dst.Grid = src.Grid }},
		{"dictionary", src.Dictionary != nil, func() { dst.Dictionary = src.Dictionary }},
		{"filter", src.Filter != nil, func() { dst.Filter = src.Filter }},
		{"store", src.Store != nil, func() { dst.Store = src.Store }},
		{"output", src.Output != nil, func() { dst.Output = src.Output }},
		{"progress", src.Progress != nil, func() { dst.Progress = src.Progress }},
	}
	for _, s := range steps {
		if err := take(s.name, s.present, s.assign); err != nil {
			return err
		}
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a sorted list of all .hcl
// files found. Unlike directories, a missing path is an error.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(allFiles)
	return allFiles, nil
}

var _ config.Loader = (*Loader)(nil)
