package synth

import (
	"fmt"
	"math/rand"
)

// Shape describes which arguments a Template needs filled in
type Shape int

const (
	ShapeNone Shape = iota
	ShapeIPv4
	ShapeUserID
	ShapeCacheKey
	ShapePercent
	ShapeLatency
	ShapeJob
)

var shapeNames = [...]string{"none", "ipv4", "user-id", "cache-key", "percent", "latency", "job"}

func (s Shape) String() string {
	if s < ShapeNone || s > ShapeJob {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// A Template is a message pattern. Text uses fmt verbs, one per argument
// that its Shape produces.
type Template struct {
	Text  string
	Shape Shape
}

// Catalog is the fixed set of application messages we synthesize from
var Catalog = []Template{
	{"Application started successfully", ShapeNone},
	{"New user registration: user_%d created", ShapeUserID},
	{"Failed login attempt from IP %d.%d.%d.%d", ShapeIPv4},
	{"Database connection established", ShapeNone},
	{"Cache miss for key: cache_%d", ShapeCacheKey},
	{"Memory usage at %d%%", ShapePercent},
	{"CPU load: %d%%", ShapePercent},
	{"Disk usage reached %d%%", ShapePercent},
	{"Network latency: %dms", ShapeLatency},
	{"Batch job %d completed in %ds", ShapeJob},
}

// between returns an integer in [lo, hi]
func between(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo+1)
}

// Args draws the arguments the Shape calls for
func (s Shape) Args(rnd *rand.Rand) []interface{} {
	switch s {
	case ShapeIPv4:
		return []interface{}{
			between(rnd, 1, 255), between(rnd, 1, 255),
			between(rnd, 1, 255), between(rnd, 1, 255),
		}
	case ShapeUserID:
		return []interface{}{between(rnd, 1000, 9999)}
	case ShapeCacheKey:
		return []interface{}{between(rnd, 1, 1000)}
	case ShapePercent:
		return []interface{}{between(rnd, 1, 100)}
	case ShapeLatency:
		return []interface{}{between(rnd, 1, 500)}
	case ShapeJob:
		return []interface{}{between(rnd, 1000, 9999), between(rnd, 1, 300)}
	default:
		return nil
	}
}

// Render fills the template. Templates without arguments are returned
// untouched, so a literal '%' in them is never interpreted.
func (t Template) Render(rnd *rand.Rand) string {
	args := t.Shape.Args(rnd)
	if len(args) == 0 {
		return t.Text
	}
	return fmt.Sprintf(t.Text, args...)
}
