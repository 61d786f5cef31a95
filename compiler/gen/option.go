package gen

import (
	"errors"
	"log/slog"
	"path"
	"time"

	"github.com/gobwas/glob"
)

// Option configures a generation run.
type Option func(*Config) error

// WithSchema sets the directory holding the schema tree.
func WithSchema(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Schema", nil, "schema directory cannot be empty")
		}
		c.Schema = dir
		return nil
	}
}

// WithRoot sets the root declaration document, relative to the schema
// directory. The file must be named <name>.mod.json.
func WithRoot(file string) Option {
	return func(c *Config) error {
		if _, err := schemaBase(path.Base(file), "mod"); err != nil {
			return NewConfigError("Root", file, "root must be named <name>.mod.json")
		}
		c.Root = file
		return nil
	}
}

// WithTarget sets the output directory of the generated Go package.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the generated Go package.
// For example: "github.com/org/game/gamedata".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the header comment of generated Go files.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers bounds the number of files rendered at once.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithSources sets the tabular source packages blank imported by the load
// artifact, replacing the default YAML source.
func WithSources(pkgs ...string) Option {
	return func(c *Config) error {
		for _, p := range pkgs {
			if p == "" {
				return NewConfigError("Sources", nil, "source package cannot be empty")
			}
		}
		c.Sources = append(c.Sources[:0:0], pkgs...)
		return nil
	}
}

// WithProtocol enables proto3 fragments written to dir.
func WithProtocol(dir, pkg string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Protocol", nil, "protocol directory cannot be empty")
		}
		if pkg == "" {
			pkg = DefaultProtocolPackage
		}
		c.Protocol = &ProtocolConfig{Dir: dir, Package: pkg}
		return nil
	}
}

// WithRelational enables PostgreSQL enum DDL written to file.
func WithRelational(file, schema string) Option {
	return func(c *Config) error {
		if file == "" {
			return NewConfigError("Relational", nil, "relational file cannot be empty")
		}
		if schema == "" {
			schema = DefaultRelationalSchema
		}
		c.Relational = &RelationalConfig{File: file, Schema: schema}
		return nil
	}
}

// WithGraphQL enables GraphQL enum definitions written to file.
func WithGraphQL(file string) Option {
	return func(c *Config) error {
		if file == "" {
			return NewConfigError("GraphQL", nil, "graphql file cannot be empty")
		}
		c.GraphQL = &GraphQLConfig{File: file}
		return nil
	}
}

// WithWatchExclude adds glob patterns ignored by the schema watcher.
func WithWatchExclude(patterns ...string) Option {
	return func(c *Config) error {
		for _, p := range patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				return NewConfigError("WatchExclude", p, err.Error())
			}
		}
		c.Watch.Exclude = append(c.Watch.Exclude, patterns...)
		return nil
	}
}

// WithWatchDebounce sets how long the watcher waits for changes to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return NewConfigError("WatchDebounce", d, "debounce must be positive")
		}
		c.Watch.Debounce = d
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
