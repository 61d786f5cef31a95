package gen

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	// DefaultRoot is the root declaration document of a schema tree.
	DefaultRoot = "data.mod.json"
	// DefaultHeader is the header of every generated Go file.
	DefaultHeader = "Code generated by tablegen. DO NOT EDIT."
	// DefaultProtocolPackage is the proto package of protocol fragments.
	DefaultProtocolPackage = "spire.protocol"
	// DefaultRelationalSchema is the schema relational enum types are
	// created in.
	DefaultRelationalSchema = "public"
	// DefaultDebounce is how long the watcher waits for schema changes to
	// settle.
	DefaultDebounce = 300 * time.Millisecond
	// YAMLSource is the tabular source imported by default.
	YAMLSource = "github.com/syssam/tablegen/tabular/yamlbook"
)

// Config holds the global configuration of a generation run.
type Config struct {
	// Schema is the directory holding the schema tree.
	Schema string `yaml:"schema"`
	// Root is the root declaration document, relative to Schema.
	Root string `yaml:"root"`
	// Target is the output directory of the generated Go package.
	Target string `yaml:"target"`
	// Package is the import path of the generated Go package.
	Package string `yaml:"package"`
	// Header is written at the top of every generated Go file.
	Header string `yaml:"header"`
	// Workers bounds the number of files rendered at once.
	Workers int `yaml:"workers"`
	// Sources lists the tabular source packages the load artifact imports.
	Sources []string `yaml:"sources"`

	Protocol   *ProtocolConfig   `yaml:"protocol"`
	Relational *RelationalConfig `yaml:"relational"`
	GraphQL    *GraphQLConfig    `yaml:"graphql"`
	Watch      WatchConfig       `yaml:"watch"`

	// Logger receives progress logs. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// ProtocolConfig enables proto3 fragments for enumerations flagged protocol.
type ProtocolConfig struct {
	// Dir receives one .proto file per enumeration.
	Dir     string `yaml:"dir"`
	Package string `yaml:"package"`
}

// RelationalConfig enables PostgreSQL enum types for enumerations flagged
// queryable.
type RelationalConfig struct {
	// File receives the DDL of every enum type.
	File   string `yaml:"file"`
	Schema string `yaml:"schema"`
}

// GraphQLConfig enables GraphQL enum definitions for enumerations flagged
// graphql.
type GraphQLConfig struct {
	File string `yaml:"file"`
}

// WatchConfig configures tablegen generate --watch.
type WatchConfig struct {
	// Exclude holds glob patterns of paths to ignore, matched against the
	// slash separated path relative to the schema directory.
	Exclude  []string      `yaml:"exclude"`
	Debounce time.Duration `yaml:"debounce"`
}

// OutputConfig groups the settings of the generated Go package.
type OutputConfig struct {
	Target  string
	Package string
	Header  string
}

// Output returns the output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{Target: c.Target, Package: c.Package, Header: c.Header}
}

// RootFile returns the root declaration document.
func (c *Config) RootFile() string {
	if c.Root == "" {
		return DefaultRoot
	}
	return filepath.ToSlash(c.Root)
}

// HeaderComment returns the generated file header.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// SourcePackages returns the tabular source packages the load artifact
// imports.
func (c *Config) SourcePackages() []string {
	if len(c.Sources) == 0 {
		return []string{YAMLSource}
	}
	return c.Sources
}

// Log returns the configured logger.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Validate checks the settings a generation run requires.
func (c *Config) Validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "missing package import path")
	}
	if c.Workers < 0 {
		return NewConfigError("Workers", c.Workers, "workers cannot be negative")
	}
	if c.Protocol != nil && c.Protocol.Dir == "" {
		return NewConfigError("Protocol", nil, "missing output directory")
	}
	if c.Relational != nil && c.Relational.File == "" {
		return NewConfigError("Relational", nil, "missing output file")
	}
	if c.GraphQL != nil && c.GraphQL.File == "" {
		return NewConfigError("GraphQL", nil, "missing output file")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Protocol != nil && c.Protocol.Package == "" {
		c.Protocol.Package = DefaultProtocolPackage
	}
	if c.Relational != nil && c.Relational.Schema == "" {
		c.Relational.Schema = DefaultRelationalSchema
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

// LoadConfigFile reads a YAML configuration file. Relative directories in
// the file are resolved against the file's directory. Unknown keys are an
// error.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tablegen: read config: %w", err)
	}
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, NewConfigError("File", path, err.Error())
	}
	base := filepath.Dir(path)
	for _, p := range []*string{&c.Schema, &c.Target} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	if c.Protocol != nil && c.Protocol.Dir != "" && !filepath.IsAbs(c.Protocol.Dir) {
		c.Protocol.Dir = filepath.Join(base, c.Protocol.Dir)
	}
	if c.Relational != nil && c.Relational.File != "" && !filepath.IsAbs(c.Relational.File) {
		c.Relational.File = filepath.Join(base, c.Relational.File)
	}
	if c.GraphQL != nil && c.GraphQL.File != "" && !filepath.IsAbs(c.GraphQL.File) {
		c.GraphQL.File = filepath.Join(base, c.GraphQL.File)
	}
	c.applyDefaults()
	return c, nil
}
