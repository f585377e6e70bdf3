package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/nodeflow/internal/ctxlog"
	"github.com/vk/nodeflow/internal/registry"
)

// fileRoot is a struct used to decode all top-level blocks of a manifest.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type nodeBlock struct {
	TypeID      string      `hcl:"type_id,label"`
	DisplayName string      `hcl:"display_name,optional"`
	Inputs      []*pinBlock `hcl:"input,block"`
	Outputs     []*pinBlock `hcl:"output,block"`
}

type pinBlock struct {
	ID   string         `hcl:"id,label"`
	Name string         `hcl:"name,optional"`
	Type hcl.Expression `hcl:"type,optional"`
}

// Load parses every .hcl file found under paths, in path order and then
// lexical file order. Paths that do not exist are skipped.
func Load(ctx context.Context, paths ...string) ([]registry.NodeDefinition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []registry.NodeDefinition
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		fileDefs, err := decode(ctx, hclFile, file)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}

	logger.Debug("Manifest loading complete.", "definitions", len(defs))
	return defs, nil
}

// Parse decodes a single manifest held in memory.
func Parse(ctx context.Context, filename string, src []byte) ([]registry.NodeDefinition, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(ctx, hclFile, filename)
}

// LoadInto loads manifests and registers every definition into reg. Later
// definitions replace earlier ones with the same type id.
func LoadInto(ctx context.Context, reg *registry.Registry, paths ...string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	defs, err := Load(ctx, paths...)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if _, exists := reg.Get(def.TypeID); exists {
			logger.Warn("Manifest overrides an existing node definition.", "type_id", def.TypeID)
		}
		reg.Register(def)
	}
	logger.Info("Manifest definitions registered.", "count", len(defs))
	return len(defs), nil
}

func decode(ctx context.Context, file *hcl.File, filename string) ([]registry.NodeDefinition, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	defs := make([]registry.NodeDefinition, 0, len(root.Nodes))
	for _, block := range root.Nodes {
		def, err := translateNode(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// findHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func findHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}
