// Package generate grows graphs with random attachment models. Each step
// adds one vertex with integer id max+1 at time latest+1 and connects it to
// existing vertices.
package generate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/db"
)

// state is the vertex pool a generator samples from.
type state struct {
	g       *db.Graph
	ids     []uint64
	degrees []int
	maxID   uint64
	latest  int64
}

func load(g *db.Graph) *state {
	s := &state{g: g}
	if t, ok := g.LatestTime(); ok {
		s.latest = t
	}
	for v := range g.Vertices() {
		id := v.ID()
		s.ids = append(s.ids, id)
		s.degrees = append(s.degrees, v.Degree())
		if id > s.maxID {
			s.maxID = id
		}
	}
	return s
}

// seedVertices tops the pool up to m vertices at the latest time.
func (s *state) seedVertices(m int) error {
	for len(s.ids) < m {
		s.maxID++
		if err := s.g.AddVertex(s.latest, s.maxID, nil); err != nil {
			return err
		}
		s.ids = append(s.ids, s.maxID)
		s.degrees = append(s.degrees, 0)
	}
	return nil
}

func (s *state) addStep(targets []int) error {
	s.maxID++
	s.latest++
	if len(targets) == 0 {
		if err := s.g.AddVertex(s.latest, s.maxID, nil); err != nil {
			return err
		}
	}
	for _, pos := range targets {
		if err := s.g.AddEdge(s.latest, s.maxID, s.ids[pos], nil, ""); err != nil {
			return err
		}
		s.degrees[pos]++
	}
	s.ids = append(s.ids, s.maxID)
	s.degrees = append(s.degrees, len(targets))
	return nil
}

func (s *state) done(model string, start time.Time, n, m int) {
	s.g.Annotate(annotations.GenerateComplete, start, map[string]interface{}{
		"model":    model,
		"vertices": n,
		"edges":    n * m,
	})
}

func checkArgs(n, m int) error {
	if n < 0 || m < 0 {
		return fmt.Errorf("generate: negative size (vertices=%d, edges per step=%d)", n, m)
	}
	return nil
}

// PreferentialAttachment adds n vertices, each linked to m distinct existing
// vertices chosen with probability proportional to their degree
// (Barabási-Albert). A graph with fewer than m vertices is first topped up
// with isolated vertices, and a graph with fewer than m edges is seeded with
// a chain through its vertices so every vertex has a degree to sample by.
// Cancelling ctx stops the run between steps and returns ctx.Err(); the
// steps already applied stay in the graph.
func PreferentialAttachment(ctx context.Context, g *db.Graph, n, m int, rng *rand.Rand) error {
	if err := checkArgs(n, m); err != nil {
		return err
	}
	start := time.Now()
	s := load(g)
	if err := s.seedVertices(m); err != nil {
		return err
	}
	if g.NumEdges() < m {
		for pos := 1; pos < len(s.ids); pos++ {
			if err := g.AddEdge(s.latest, s.ids[pos], s.ids[pos-1], nil, ""); err != nil {
				return err
			}
			s.degrees[pos]++
			s.degrees[pos-1]++
		}
	}

	total := 0
	for _, d := range s.degrees {
		total += d
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		targets := make([]int, 0, m)
		chosen := make(map[int]bool, m)
		remaining := total
		for len(targets) < m {
			pos := pick(s.degrees, chosen, remaining, rng)
			chosen[pos] = true
			targets = append(targets, pos)
			remaining -= s.degrees[pos]
		}
		if err := s.addStep(targets); err != nil {
			return err
		}
		total += 2 * m
	}
	s.done("preferential_attachment", start, n, m)
	return nil
}

// pick samples an unchosen position weighted by degree, falling back to a
// uniform choice when every unchosen vertex has degree zero.
func pick(degrees []int, chosen map[int]bool, remaining int, rng *rand.Rand) int {
	if remaining > 0 {
		r := rng.Intn(remaining) + 1
		sum := 0
		for pos, d := range degrees {
			if chosen[pos] {
				continue
			}
			sum += d
			if sum >= r {
				return pos
			}
		}
	}
	free := make([]int, 0, len(degrees)-len(chosen))
	for pos := range degrees {
		if !chosen[pos] {
			free = append(free, pos)
		}
	}
	return free[rng.Intn(len(free))]
}

// RandomAttachment adds n vertices, each linked to m distinct existing
// vertices chosen uniformly. A graph with fewer than m vertices is first
// topped up with isolated vertices. Cancellation behaves as for
// PreferentialAttachment.
func RandomAttachment(ctx context.Context, g *db.Graph, n, m int, rng *rand.Rand) error {
	if err := checkArgs(n, m); err != nil {
		return err
	}
	start := time.Now()
	s := load(g)
	if err := s.seedVertices(m); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		targets := make([]int, 0, m)
		chosen := make(map[int]bool, m)
		for len(targets) < m {
			pos := rng.Intn(len(s.ids))
			if chosen[pos] {
				continue
			}
			chosen[pos] = true
			targets = append(targets, pos)
		}
		if err := s.addStep(targets); err != nil {
			return err
		}
	}
	s.done("random_attachment", start, n, m)
	return nil
}
