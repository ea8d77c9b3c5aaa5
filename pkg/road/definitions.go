package road

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// default distance from the car's centre to a cone that counts as a hit, m
const defaultHitRadius = 1.0

// Slalom puts count cones on the centre line, spacing metres apart from
// start, to be passed on alternating sides starting on the right.
func Slalom(start, spacing float64, count int) *Course {
	gates := make([]Gate, 0, count)
	side := PassRight
	for i := 0; i < count; i++ {
		gates = append(gates, Gate{
			Position: mgl64.Vec2{0, start + float64(i)*spacing},
			Side:     side,
		})
		side = -side
	}
	return NewCourse("slalom", defaultHitRadius, gates...)
}

// Lane is a straight corridor of cone pairs, width metres wide, every
// spacing metres up to length.
func Lane(width, spacing, length float64) *Course {
	var gates []Gate
	for y := spacing; y <= length; y += spacing {
		gates = append(gates,
			Gate{Position: mgl64.Vec2{-width / 2, y}, Side: PassRight},
			Gate{Position: mgl64.Vec2{width / 2, y}, Side: PassLeft},
		)
	}
	return NewCourse("lane", defaultHitRadius, gates...)
}

var courses = map[string]func() *Course{
	"slalom": func() *Course { return Slalom(20, 15, 8) },
	"lane":   func() *Course { return Lane(4, 10, 200) },
}

// Courses lists the built-in course names.
func Courses() []string {
	names := make([]string, 0, len(courses))
	for name := range courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named course.
func Lookup(name string) (*Course, error) {
	build, ok := courses[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown course %q, have %s", name, strings.Join(Courses(), ", "))
	}
	return build(), nil
}
