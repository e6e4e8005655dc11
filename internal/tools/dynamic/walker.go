package dynamic

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EmbeddedFS carries the YAML tool definitions compiled into the binary.
// main wires it to the tools config embed; tests may swap it.
var EmbeddedFS embed.FS

// WalkConfigDirectory loads every YAML tool definition, preferring the
// embedded copies so the binary works from any working directory. The
// on-disk directory is the development fallback.
func WalkConfigDirectory(configDir string) ([]*ToolConfig, error) {
	if configs, err := collectConfigs(EmbeddedFS); err == nil && len(configs) > 0 {
		slog.Info("loaded guidance tools from embedded definitions", "count", len(configs))
		return configs, nil
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		slog.Warn("guidance tool directory missing", "dir", configDir)
		return []*ToolConfig{}, nil
	}
	configs, err := collectConfigs(os.DirFS(configDir))
	if err != nil {
		return nil, fmt.Errorf("walking guidance tool directory %s: %w", configDir, err)
	}
	return configs, nil
}

// collectConfigs walks one filesystem and parses every .yaml/.yml file
// into a tool definition. A single bad file aborts the walk.
func collectConfigs(fsys fs.FS) ([]*ToolConfig, error) {
	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("tool definitions unavailable: %w", err)
	}

	var configs []*ToolConfig
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		config, err := parseToolConfig(data, path)
		if err != nil {
			return err
		}

		configs = append(configs, config)
		slog.Debug("parsed guidance tool", "tool", config.Name, "category", config.Category, "path", path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func isYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// parseToolConfig unmarshals one definition and rejects files missing the
// fields every guidance tool needs.
func parseToolConfig(data []byte, path string) (*ToolConfig, error) {
	var config ToolConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	config.Category = deriveCategoryFromPath(path)

	if config.Name == "" {
		return nil, fmt.Errorf("%s: tool name is required", path)
	}
	if config.Description == "" {
		return nil, fmt.Errorf("%s: tool description is required", path)
	}
	if err := validateParameters(config.Parameters); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

var parameterTypes = map[string]bool{
	"string": true, "integer": true, "number": true,
	"boolean": true, "array": true, "object": true,
}

// validateParameters checks parameter declarations: names must be present
// and unique, types (when given) must be JSON Schema primitives.
func validateParameters(params []ParameterConfig) error {
	seen := make(map[string]bool, len(params))
	for i, param := range params {
		if param.Name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
		if seen[param.Name] {
			return fmt.Errorf("parameter %q declared twice", param.Name)
		}
		seen[param.Name] = true
		if param.Type != "" && !parameterTypes[param.Type] {
			return fmt.Errorf("parameter %q has unknown type %q", param.Name, param.Type)
		}
	}
	return nil
}

// deriveCategoryFromPath reads the category from the directory layout: the
// segment after "config", so config/fraud/trace-recycled-assets.yaml
// belongs to "fraud". Paths already relative to the config root use their
// first directory instead.
func deriveCategoryFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for i, part := range parts {
		if part == "config" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) >= 2 {
		if parts[0] == "tools" && len(parts) >= 3 {
			return parts[1]
		}
		return parts[0]
	}
	return "general"
}
