package gen

import (
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/tablegen/compiler/load"
)

// NewGraph reads the schema tree rooted at cfg.RootFile() in fsys and
// resolves it. The returned graph is complete: every reference is resolved,
// every table carries its effective fields and the dependency levels are
// computed. Any defect in the schema tree aborts the build.
func NewGraph(cfg *Config, fsys fs.FS) (*Graph, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	loader, err := load.New(fsys)
	if err != nil {
		return nil, err
	}
	log := cfg.Log().With("run", uuid.NewString())
	g := &Graph{
		Config:    cfg,
		Hierarchy: make(map[int][]int),
		types:     make(map[string]typeEntry),
		log:       log,
	}
	c := &collector{
		g:       g,
		loader:  loader,
		log:     log,
		modules: make(map[string]string),
		goNames: map[string]string{"LoadAll": "load.go", "Ready": "load.go"},
	}
	phases := []struct {
		name string
		run  func() error
	}{
		{"collect", func() error { return c.collect(cfg.RootFile()) }},
		{"hierarchy", g.buildHierarchy},
		{"resolve", g.resolve},
		{"levels", g.buildLevels},
	}
	for _, p := range phases {
		start := time.Now()
		if err := p.run(); err != nil {
			log.Debug("phase failed", "phase", p.name, "error", err)
			return nil, err
		}
		log.Debug("phase done", "phase", p.name, "took", time.Since(start))
	}
	log.Info("schema resolved",
		"modules", len(g.Modules),
		"tables", len(g.Tables),
		"enums", len(g.Enums),
		"consts", len(g.Consts),
		"levels", len(g.Levels),
	)
	return g, nil
}
