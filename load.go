package tablegen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/tablegen/tabular"
)

// Task loads one concrete table.
type Task struct {
	// Name is the qualified table name.
	Name string
	// Workbook is the path of the table's workbook, relative to the data root.
	Workbook string
	// Sheet is the name of the sheet holding the table's rows.
	Sheet string
	Table Loadable
}

// Resetter is implemented by abstract table arenas.
type Resetter interface {
	Reset()
}

// Plan describes how a generated package loads its tables.
type Plan struct {
	// Abstract lists the arenas of all abstract tables.
	Abstract []Resetter
	// Levels lists the concrete tables by dependency level. Every table a
	// level links to is in an earlier level.
	Levels [][]Task
}

// Tables returns the number of concrete tables in the plan.
func (p Plan) Tables() int {
	n := 0
	for _, level := range p.Levels {
		n += len(level)
	}
	return n
}

type loadConfig struct {
	source      tabular.Source
	logger      *slog.Logger
	metrics     *Metrics
	registerer  prometheus.Registerer
	concurrency int
}

// LoadOption configures Dataset.Load.
type LoadOption func(*loadConfig)

// WithSource sets the source workbooks are opened with. It defaults to
// tabular.Default, which dispatches on the file extension.
func WithSource(src tabular.Source) LoadOption {
	return func(c *loadConfig) {
		if src != nil {
			c.source = src
		}
	}
}

// WithLogger sets the logger. It defaults to slog.Default().
func WithLogger(l *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records load metrics in reg.
func WithMetrics(reg prometheus.Registerer) LoadOption {
	return func(c *loadConfig) {
		c.registerer = reg
	}
}

// WithConcurrency limits the number of tables loaded at once. Zero or less
// means no limit.
func WithConcurrency(n int) LoadOption {
	return func(c *loadConfig) {
		c.concurrency = n
	}
}

const (
	datasetIdle uint32 = iota
	datasetLoading
	datasetReady
	datasetFailed
)

// Dataset tracks the load state of a generated package. The zero value is
// ready to load.
type Dataset struct {
	state atomic.Uint32
}

// Ready reports whether Load completed successfully.
func (d *Dataset) Ready() bool {
	return d.state.Load() == datasetReady
}

// Load loads every table of plan from the workbooks under root.
//
// Abstract arenas are reset first. Levels then load in order, the tables of
// one level concurrently, and every level waits for the previous one. After
// all levels are loaded, the tables resolve their links concurrently. The
// first error aborts the load and leaves the dataset unusable; a dataset
// loads at most once.
func (d *Dataset) Load(ctx context.Context, root string, plan Plan, opts ...LoadOption) error {
	if !d.state.CompareAndSwap(datasetIdle, datasetLoading) {
		return ErrAlreadyLoaded
	}
	if err := d.load(ctx, root, plan, opts...); err != nil {
		d.state.Store(datasetFailed)
		return err
	}
	d.state.Store(datasetReady)
	return nil
}

func (d *Dataset) load(ctx context.Context, root string, plan Plan, opts ...LoadOption) error {
	cfg := &loadConfig{source: tabular.Default, logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registerer != nil {
		m, err := NewMetrics(cfg.registerer)
		if err != nil {
			return fmt.Errorf("tablegen: register metrics: %w", err)
		}
		cfg.metrics = m
	}

	start := time.Now()
	for _, a := range plan.Abstract {
		a.Reset()
	}
	for i, level := range plan.Levels {
		if err := ctx.Err(); err != nil {
			return err
		}
		var g errgroup.Group
		if cfg.concurrency > 0 {
			g.SetLimit(cfg.concurrency)
		}
		for _, task := range level {
			g.Go(func() error {
				return loadTask(ctx, cfg, root, i, task)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	var g errgroup.Group
	if cfg.concurrency > 0 {
		g.SetLimit(cfg.concurrency)
	}
	for _, level := range plan.Levels {
		for _, task := range level {
			g.Go(func() error {
				begin := time.Now()
				defer cfg.metrics.observe(task.Name, "init", begin)
				if err := task.Table.Init(); err != nil {
					return fmt.Errorf("init %s: %w", task.Name, err)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	cfg.logger.Info("dataset loaded",
		"tables", plan.Tables(),
		"levels", len(plan.Levels),
		"duration", time.Since(start))
	return nil
}

func loadTask(ctx context.Context, cfg *loadConfig, root string, level int, task Task) error {
	begin := time.Now()
	wb, err := cfg.source.Open(ctx, filepath.Join(root, filepath.FromSlash(task.Workbook)))
	if err != nil {
		return &SourceError{Workbook: task.Workbook, Err: err}
	}
	defer wb.Close()

	rows, err := wb.Sheet(ctx, task.Sheet)
	if err != nil {
		return &SourceError{Workbook: task.Workbook, Sheet: task.Sheet, Err: err}
	}
	if err := task.Table.Load(rows); err != nil {
		return fmt.Errorf("load %s: %w", task.Name, err)
	}
	cfg.metrics.observe(task.Name, "load", begin)
	cfg.metrics.setRows(task.Name, len(rows))
	cfg.logger.Debug("loaded table",
		"table", task.Name,
		"rows", len(rows),
		"level", level,
		"duration", time.Since(begin))
	return nil
}
