package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/syssam/tablegen/compiler/gen"
)

// defaultConfigFile is read when present and --config is not given.
const defaultConfigFile = "tablegen.yaml"

// cli holds the persistent flags shared by every command.
type cli struct {
	stdout, stderr io.Writer

	configFile string
	verbose    bool
	schema     string
	root       string
	target     string
	pkg        string
	workers    int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "tablegen",
		Short:         "Compile game table schemas into a typed Go package",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "configuration file (default "+defaultConfigFile+" when present)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log every phase")
	flags.StringVar(&c.schema, "schema", "", "directory holding the schema tree")
	flags.StringVar(&c.root, "root", "", "root declaration document, relative to the schema directory")
	flags.StringVar(&c.target, "target", "", "output directory of the generated package")
	flags.StringVar(&c.pkg, "package", "", "import path of the generated package")
	flags.IntVar(&c.workers, "workers", 0, "files rendered at once")

	cmd.AddCommand(
		c.generateCmd(),
		c.checkCmd(),
		c.levelsCmd(),
	)
	return cmd
}

// logger returns the slog logger of the run, backed by a charm handler
// writing to stderr.
func (c *cli) logger() *slog.Logger {
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(c.stderr, log.Options{
		Prefix: "tablegen",
		Level:  level,
	}))
}

// config loads the configuration file, if any, and applies the flags the
// user set on top of it.
func (c *cli) config(cmd *cobra.Command) (*gen.Config, error) {
	cfg := &gen.Config{}
	file := c.configFile
	if file == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			file = defaultConfigFile
		}
	}
	if file != "" {
		var err error
		if cfg, err = gen.LoadConfigFile(file); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	var opts []gen.Option
	if flags.Changed("schema") {
		opts = append(opts, gen.WithSchema(c.schema))
	}
	if flags.Changed("root") {
		opts = append(opts, gen.WithRoot(c.root))
	}
	if flags.Changed("target") {
		opts = append(opts, gen.WithTarget(c.target))
	}
	if flags.Changed("package") {
		opts = append(opts, gen.WithPackage(c.pkg))
	}
	if flags.Changed("workers") {
		opts = append(opts, gen.WithWorkers(c.workers))
	}
	opts = append(opts, gen.WithLogger(c.logger()))
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	if cfg.Schema == "" {
		cfg.Schema = "."
	}
	return cfg, nil
}

// graph loads the configuration and resolves the schema tree.
func (c *cli) graph(cmd *cobra.Command) (*gen.Graph, error) {
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, err
	}
	return buildGraph(cfg)
}

func buildGraph(cfg *gen.Config) (*gen.Graph, error) {
	info, err := os.Stat(cfg.Schema)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: cfg.Schema, Err: errors.New("not a directory")}
	}
	return gen.NewGraph(cfg, os.DirFS(cfg.Schema))
}
