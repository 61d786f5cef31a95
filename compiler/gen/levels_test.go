package gen

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelize(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		deps   [][]int
		levels [][]int
		rest   []int
	}{
		{
			name: "empty",
		},
		{
			name:   "independent",
			n:      3,
			deps:   make([][]int, 3),
			levels: [][]int{{0, 1, 2}},
		},
		{
			name:   "chain",
			n:      3,
			deps:   [][]int{{1}, {2}, nil},
			levels: [][]int{{2}, {1}, {0}},
		},
		{
			name:   "diamond",
			n:      4,
			deps:   [][]int{nil, {0}, {0}, {1, 2}},
			levels: [][]int{{0}, {1, 2}, {3}},
		},
		{
			name:   "duplicate edges",
			n:      2,
			deps:   [][]int{nil, {0, 0, 0}},
			levels: [][]int{{0}, {1}},
		},
		{
			name:   "longest path decides",
			n:      4,
			deps:   [][]int{nil, {0}, {1}, {0, 2}},
			levels: [][]int{{0}, {1}, {2}, {3}},
		},
		{
			name:   "cycle",
			n:      4,
			deps:   [][]int{nil, {0, 2}, {1}, {2}},
			levels: [][]int{{0}},
			rest:   []int{1, 2, 3},
		},
		{
			name: "self cycle",
			n:    1,
			deps: [][]int{{0}},
			rest: []int{0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, rest := Levelize(tt.n, tt.deps)
			for _, level := range levels {
				slices.Sort(level)
			}
			assert.Equal(t, tt.levels, levels)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestLevelizeInvariant(t *testing.T) {
	// A wide graph: node i depends on every node that divides it.
	const n = 60
	deps := make([][]int, n)
	for i := 2; i < n; i++ {
		for d := 1; d < i; d++ {
			if i%d == 0 {
				deps[i] = append(deps[i], d)
			}
		}
	}
	levels, rest := Levelize(n, deps)
	assert.Empty(t, rest)

	level := make(map[int]int, n)
	for i, nodes := range levels {
		for _, node := range nodes {
			_, dup := level[node]
			assert.False(t, dup, "node %d placed twice", node)
			level[node] = i
		}
	}
	assert.Len(t, level, n)
	for node, ds := range deps {
		for _, d := range ds {
			assert.Less(t, level[d], level[node], "node %d depends on %d", node, d)
		}
	}
	// 32 = 2^5 sits behind 1, 2, 4, 8 and 16.
	assert.Equal(t, 5, level[32])
}
