// Package road lays out cone courses on the ground plane and scores a
// vehicle driving through them.
package road

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// Sides a gate cone can be passed on.
const (
	PassLeft  = -1
	PassRight = 1
)

// Gate is a single cone the car has to pass on a given side.
type Gate struct {
	Position mgl64.Vec2 // world, m
	Side     int        // PassLeft or PassRight

	Passed bool
	Missed bool
	Hit    bool
}

// Progress is the running score of a course.
type Progress struct {
	Passed    int  `json:"passed"`
	Missed    int  `json:"missed"`
	Hits      int  `json:"hits"`
	Remaining int  `json:"remaining"`
	Finished  bool `json:"finished"`
}

// Course is an ordered list of gates laid along +Y.
type Course struct {
	Name      string
	Gates     []Gate
	HitRadius float64 // car centre to cone distance that counts as a hit, m

	next     int
	progress Progress
}

// NewCourse returns a course over the given gates, which must be ordered by
// Y.
func NewCourse(name string, hitRadius float64, gates ...Gate) *Course {
	c := &Course{
		Name:      name,
		Gates:     gates,
		HitRadius: hitRadius,
	}
	c.progress.Remaining = len(gates)
	c.progress.Finished = len(gates) == 0
	return c
}

// Update scores every gate the vehicle has drawn level with since the last
// call and any cone it is touching.
func (c *Course) Update(v vehicle.Vehicle) Progress {
	pos := v.Position()

	for i := range c.Gates {
		g := &c.Gates[i]
		if !g.Hit && pos.Sub(g.Position).Len() < c.HitRadius {
			g.Hit = true
			c.progress.Hits++
		}
	}

	for c.next < len(c.Gates) && pos.Y() >= c.Gates[c.next].Position.Y() {
		g := &c.Gates[c.next]
		if (pos.X()-g.Position.X())*float64(g.Side) > 0 {
			g.Passed = true
			c.progress.Passed++
		} else {
			g.Missed = true
			c.progress.Missed++
		}
		c.next++
	}

	c.progress.Remaining = len(c.Gates) - c.next
	c.progress.Finished = c.next == len(c.Gates)
	return c.progress
}

// Progress is the score so far.
func (c *Course) Progress() Progress {
	return c.progress
}

// Reset clears the score.
func (c *Course) Reset() {
	for i := range c.Gates {
		c.Gates[i].Passed, c.Gates[i].Missed, c.Gates[i].Hit = false, false, false
	}
	c.next = 0
	c.progress = Progress{Remaining: len(c.Gates), Finished: len(c.Gates) == 0}
}
