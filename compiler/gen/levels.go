package gen

import (
	"cmp"
	"slices"
)

// Levelize batches the nodes 0..n-1 of a dependency graph into levels.
// deps[i] lists the nodes node i depends on. Every node is placed in the
// first level after all of its dependencies. Node order within a level
// follows the order nodes became ready and carries no meaning.
//
// If the graph has a cycle, Levelize returns the levels it could build and
// the nodes that never became ready, in ascending order.
func Levelize(n int, deps [][]int) (levels [][]int, rest []int) {
	pending := make([]int, n)
	dependents := make([][]int, n)
	for node, ds := range deps {
		seen := make(map[int]bool, len(ds))
		for _, d := range ds {
			if seen[d] {
				continue
			}
			seen[d] = true
			pending[node]++
			dependents[d] = append(dependents[d], node)
		}
	}

	var queue []int
	for node := range n {
		if pending[node] == 0 {
			queue = append(queue, node)
		}
	}
	processed := 0
	for len(queue) > 0 {
		level := queue
		queue = nil
		for _, node := range level {
			for _, dependent := range dependents[node] {
				pending[dependent]--
				if pending[dependent] == 0 {
					queue = append(queue, dependent)
				}
			}
		}
		processed += len(level)
		levels = append(levels, level)
	}

	if processed < n {
		for node := range n {
			if pending[node] > 0 {
				rest = append(rest, node)
			}
		}
	}
	return levels, rest
}

// buildLevels computes the dependency levels of the tables from their link
// fields. Tables are sorted by type id within a level so that generated
// output is stable.
func (g *Graph) buildLevels() error {
	deps := make([][]int, len(g.Tables))
	for i, t := range g.Tables {
		for _, d := range t.Dependencies() {
			deps[i] = append(deps[i], d.Index)
		}
	}
	levels, rest := Levelize(len(g.Tables), deps)
	if len(rest) > 0 {
		names := make([]string, len(rest))
		for i, idx := range rest {
			names[i] = g.Tables[idx].TypeID()
		}
		slices.Sort(names)
		return &CycleError{Types: names}
	}

	g.Levels = make([][]*Table, len(levels))
	for i, level := range levels {
		tables := make([]*Table, len(level))
		for j, idx := range level {
			tables[j] = g.Tables[idx]
		}
		slices.SortFunc(tables, func(a, b *Table) int {
			return cmp.Compare(a.TypeID(), b.TypeID())
		})
		g.Levels[i] = tables
	}
	return nil
}

// Level returns the dependency level of t, or -1 if levels are not built.
func (g *Graph) Level(t *Table) int {
	for i, level := range g.Levels {
		if slices.Contains(level, t) {
			return i
		}
	}
	return -1
}
