package process

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Config is the serialised form of a Definition.
type Config struct {
	Name                  string       `json:"name"                            yaml:"name"`
	Alias                 string       `json:"alias,omitempty"                 yaml:"alias,omitempty"`
	UnitTypes             []UnitType   `json:"unitTypes,omitempty"             yaml:"unitTypes,omitempty"`
	InitialState          State        `json:"initialState"                    yaml:"initialState"`
	Transitions           []Transition `json:"transitions,omitempty"           yaml:"transitions,omitempty"`
	ProviderAttention     []State      `json:"providerAttention,omitempty"     yaml:"providerAttention,omitempty"`
	CustomerAttention     []State      `json:"customerAttention,omitempty"     yaml:"customerAttention,omitempty"`
	PrivilegedTransitions []Transition `json:"privilegedTransitions,omitempty" yaml:"privilegedTransitions,omitempty"`
	CompletedStates       []State      `json:"completedStates,omitempty"       yaml:"completedStates,omitempty"`
	RefundedStates        []State      `json:"refundedStates,omitempty"        yaml:"refundedStates,omitempty"`
	States                []Node       `json:"states"                          yaml:"states"`
}

// ParseConfig decodes a YAML process definition without checking it. Unknown
// fields are rejected so that typos in hand written files do not pass silently.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// LoadConfigFile reads a YAML process definition from disk without checking it.
func LoadConfigFile(filePath string) (Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return Config{}, fmt.Errorf("failed to read definition file %q: %w", filePath, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filePath, err)
	}

	return cfg, nil
}

// LoadDefinitionFromBytes parses and checks a YAML process definition.
func LoadDefinitionFromBytes(data []byte) (*Definition, error) {
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	return NewDefinition(cfg)
}

// LoadDefinitionFile reads a YAML process definition from disk.
func LoadDefinitionFile(filePath string) (*Definition, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", filePath, err)
	}

	def, err := LoadDefinitionFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	return def, nil
}

// LoadDefinitionFromFS loads a definition from a filesystem such as an embed.FS.
func LoadDefinitionFromFS(fsys fs.FS, filePath string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition from FS: %w", err)
	}

	def, err := LoadDefinitionFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	return def, nil
}

// LoadDefinitionsFromFS loads every file under dir ending in .yaml or .yml, in
// file name order.
func LoadDefinitionsFromFS(fsys fs.FS, dir string) ([]*Definition, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions in %q: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch path.Ext(entry.Name()) {
		case ".yaml", ".yml":
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	defs := make([]*Definition, 0, len(files))

	for _, file := range files {
		def, err := LoadDefinitionFromFS(fsys, file)
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// MarshalYAML renders the definition in the same format LoadDefinitionFromBytes reads.
func (d *Definition) MarshalYAML() (any, error) {
	return d.Config(), nil
}
