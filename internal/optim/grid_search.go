// Package optim searches stabilizer gains for the best closed-loop score.
package optim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/flightcore/internal/dynamo"
)

// Evaluate runs one candidate and returns its metrics.
type Evaluate func(ctx context.Context, params map[string]float64) (map[string]float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize flips the search to prefer larger metric values.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Size is the number of candidates in the grid.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every grid point and returns the best parameters and
// their score. Failed candidates are skipped.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("got %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var candidates []map[string]float64
	g.collect(0, make(map[string]float64), &candidates)
	if len(candidates) == 0 {
		return nil, 0, fmt.Errorf("empty grid")
	}

	scores := make([]float64, len(candidates))
	ok := make([]bool, len(candidates))

	dynamo.ParallelFor(len(candidates), 1, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			m, err := eval(ctx, candidates[i])
			if err != nil {
				continue
			}
			v, found := m[metricName]
			if !found || math.IsNaN(v) {
				continue
			}
			scores[i], ok[i] = v, true
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	for i, c := range candidates {
		if !ok[i] {
			continue
		}
		if (!g.maximize && scores[i] < best) || (g.maximize && scores[i] > best) {
			best = scores[i]
			bestParams = c
		}
	}

	if bestParams == nil {
		return nil, 0, fmt.Errorf("no candidate produced metric %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		c := make(map[string]float64, len(current))
		for k, v := range current {
			c[k] = v
		}
		*out = append(*out, c)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.collect(depth+1, current, out)
	}
	delete(current, paramName)
}

// Progress counts finished evaluations; safe for concurrent use.
type Progress struct {
	mu   sync.Mutex
	done int
}

func (p *Progress) Wrap(eval Evaluate) Evaluate {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		defer func() {
			p.mu.Lock()
			p.done++
			p.mu.Unlock()
		}()
		return eval(ctx, params)
	}
}

func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
