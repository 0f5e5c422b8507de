package synth

import (
	"math/rand"
	"time"
)

// A Record is one synthetic log message. Time is left zero until the
// record is actually sent.
type Record struct {
	Severity Severity
	Message  string
	Time     time.Time
}

// A Generator produces Records from a template catalog and a severity
// distribution. It is not safe for concurrent use; the Emitter owns one.
type Generator struct {
	templates []Template
	picker    *SeverityPicker
	rnd       *rand.Rand
}

// NewGenerator returns a Generator over the default catalog and weights
func NewGenerator(rnd *rand.Rand) *Generator {
	// DefaultWeights is always valid
	picker, _ := NewSeverityPicker(DefaultWeights)
	return &Generator{
		templates: Catalog,
		picker:    picker,
		rnd:       rnd,
	}
}

// NewGeneratorWith allows overriding the catalog and the weights
func NewGeneratorWith(rnd *rand.Rand, templates []Template, picker *SeverityPicker) *Generator {
	return &Generator{
		templates: templates,
		picker:    picker,
		rnd:       rnd,
	}
}

// Next returns a freshly generated Record
func (g *Generator) Next() *Record {
	tmpl := g.templates[g.rnd.Intn(len(g.templates))]

	return &Record{
		Severity: g.picker.Pick(g.rnd),
		Message:  tmpl.Render(g.rnd),
	}
}

// Jitter returns a duration uniformly distributed in [min, max]
func (g *Generator) Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(g.rnd.Int63n(int64(max-min)+1))
}
