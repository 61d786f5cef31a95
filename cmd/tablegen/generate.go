package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/compiler/gen/golang"
	"github.com/syssam/tablegen/compiler/gen/graphql"
	"github.com/syssam/tablegen/compiler/gen/protocol"
	"github.com/syssam/tablegen/compiler/gen/relational"
	"github.com/syssam/tablegen/internal/watch"
)

func (c *cli) generateCmd() *cobra.Command {
	var (
		watchMode bool
		debounce  = gen.DefaultDebounce
		exclude   []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Go package and enabled artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}
			var opts []gen.Option
			if cmd.Flags().Changed("debounce") {
				opts = append(opts, gen.WithWatchDebounce(debounce))
			}
			if len(exclude) > 0 {
				opts = append(opts, gen.WithWatchExclude(exclude...))
			}
			if err := cfg.Apply(opts...); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !watchMode {
				return generate(cmd.Context(), cfg)
			}
			return watchAndGenerate(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "regenerate when the schema tree changes")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before regenerating in watch mode")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns ignored in watch mode")
	return cmd
}

// generate resolves the schema tree and writes every artifact.
func generate(ctx context.Context, cfg *gen.Config) error {
	g, err := buildGraph(cfg)
	if err != nil {
		return err
	}
	generator := gen.NewJenniferGenerator(g)
	generator.WithPrinter(golang.NewPrinter(generator))
	generator.WithArtifacts(
		protocol.NewPrinter(),
		relational.NewPrinter(),
		graphql.NewPrinter(),
	)
	return generator.Generate(ctx)
}

// watchAndGenerate generates once, then again after every burst of schema
// changes. Failed runs are logged and do not stop watching.
func watchAndGenerate(ctx context.Context, cfg *gen.Config) error {
	log := cfg.Log()
	if err := generate(ctx, cfg); err != nil {
		log.Error("generate failed", "error", err)
	}
	w, err := watch.New(watch.Config{
		Dir:      cfg.Schema,
		Exclude:  cfg.Watch.Exclude,
		Debounce: cfg.Watch.Debounce,
		Logger:   log,
		OnChange: func(ctx context.Context, changed []string) error {
			log.Info("regenerating", "changed", len(changed))
			if err := generate(ctx, cfg); err != nil {
				log.Error("generate failed", "error", err)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	log.Info("watching", "schema", cfg.Schema)
	return w.Run(ctx)
}
