package layout

import (
	"context"
	"math"

	"github.com/inkstone-labs/storygraph/internal/model"
)

// ForceParams tunes the force simulation.
type ForceParams struct {
	Iterations     int
	LinkDistance   float64
	LinkStrength   float64
	ChargeStrength float64
	RadialRadius   float64
	RadialStrength float64
	CollideRadius  float64
}

// DefaultForceParams are calibrated for graphs of a few dozen characters.
func DefaultForceParams() ForceParams {
	return ForceParams{
		Iterations:     300,
		LinkDistance:   160,
		LinkStrength:   0.3,
		ChargeStrength: -300,
		RadialRadius:   380,
		RadialStrength: 0.8,
		CollideRadius:  90,
	}
}

// ForceProvider runs a fixed-step force simulation: link attraction,
// many-body repulsion, a radial pull that draws high-degree nodes toward
// the center, and pairwise collision resolution. Deterministic: initial
// positions come from a phyllotaxis spiral in input order and the step
// count is fixed.
type ForceProvider struct {
	Params ForceParams
}

func NewForceProvider(params ForceParams) *ForceProvider {
	if params.Iterations <= 0 {
		params = DefaultForceParams()
	}
	return &ForceProvider{Params: params}
}

type body struct {
	x, y   float64
	vx, vy float64
	degree int
	radial float64 // target distance from center
}

const (
	initialRadius = 30.0
	alphaMin      = 0.001
	velocityDecay = 0.6
)

// Golden-angle spiral spacing for initial placement.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

func (p *ForceProvider) Layout(ctx context.Context, nodes []model.GraphNode, edges []model.GraphEdge) (map[string]model.Position, error) {
	positions := make(map[string]model.Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}
	if len(nodes) == 1 {
		positions[nodes[0].ID] = model.Position{X: 0, Y: 0}
		return positions, nil
	}

	degrees := Degrees(nodes, edges)
	maxDegree := 1
	for _, d := range degrees {
		if d > maxDegree {
			maxDegree = d
		}
	}

	index := make(map[string]int, len(nodes))
	bodies := make([]body, len(nodes))
	for i, n := range nodes {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		deg := degrees[n.ID]
		bodies[i] = body{
			x:      radius * math.Cos(angle),
			y:      radius * math.Sin(angle),
			degree: deg,
			radial: p.Params.RadialRadius * (1 - float64(deg)/float64(maxDegree)),
		}
		index[n.ID] = i
	}

	type link struct{ source, target int }
	links := make([]link, 0, len(edges))
	for _, e := range edges {
		si, ok := index[e.Source]
		if !ok {
			continue
		}
		ti, ok := index[e.Target]
		if !ok || si == ti {
			continue
		}
		links = append(links, link{source: si, target: ti})
	}

	alpha := 1.0
	alphaDecay := 1 - math.Pow(alphaMin, 1/float64(p.Params.Iterations))

	for iter := 0; iter < p.Params.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		alpha += (alphaMin - alpha) * alphaDecay

		// Link attraction toward the target edge length.
		for _, l := range links {
			s, t := &bodies[l.source], &bodies[l.target]
			dx, dy := t.x-s.x, t.y-s.y
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				dx, dist = 1e-6, 1e-6
			}
			f := (dist - p.Params.LinkDistance) / dist * p.Params.LinkStrength * alpha
			s.vx += dx * f / 2
			s.vy += dy * f / 2
			t.vx -= dx * f / 2
			t.vy -= dy * f / 2
		}

		// Many-body repulsion, pairwise. Graphs stay small enough that
		// the quadratic loop is well inside the frame budget.
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				a, b := &bodies[i], &bodies[j]
				dx, dy := b.x-a.x, b.y-a.y
				d2 := dx*dx + dy*dy
				if d2 == 0 {
					dx, d2 = 1e-6, 1e-12
				}
				f := p.Params.ChargeStrength * alpha / d2
				a.vx += dx * f
				a.vy += dy * f
				b.vx -= dx * f
				b.vy -= dy * f
			}
		}

		// Radial pull toward each node's degree-derived ring.
		for i := range bodies {
			b := &bodies[i]
			dist := math.Hypot(b.x, b.y)
			if dist == 0 {
				continue
			}
			k := (b.radial - dist) / dist * p.Params.RadialStrength * alpha
			b.vx += b.x * k
			b.vy += b.y * k
		}

		for i := range bodies {
			b := &bodies[i]
			b.vx *= velocityDecay
			b.vy *= velocityDecay
			b.x += b.vx
			b.y += b.vy
		}

		// Collision resolution separates overlapping nodes directly.
		minSep := p.Params.CollideRadius
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				a, b := &bodies[i], &bodies[j]
				dx, dy := b.x-a.x, b.y-a.y
				dist := math.Hypot(dx, dy)
				if dist >= minSep {
					continue
				}
				if dist == 0 {
					dx, dist = 1e-6, 1e-6
				}
				push := (minSep - dist) / dist / 2
				a.x -= dx * push
				a.y -= dy * push
				b.x += dx * push
				b.y += dy * push
			}
		}
	}

	for i, n := range nodes {
		positions[n.ID] = model.Position{X: bodies[i].x, Y: bodies[i].y}
	}
	return positions, nil
}
