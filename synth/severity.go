package synth

import (
	"fmt"
	"math/rand"
	"strings"
)

// Severity is the ordered level of a synthetic record
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Critical
)

var severityNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

func (s Severity) String() string {
	if s < Debug || s > Critical {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity is the inverse of String and is case-insensitive
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return Debug, fmt.Errorf("unknown severity '%s'", name)
}

// A WeightedSeverity pairs a Severity with its relative share of traffic
type WeightedSeverity struct {
	Severity Severity
	Weight   int
}

// DefaultWeights skews heavily towards INFO, the way real application
// traffic does. The weights sum to 100.
var DefaultWeights = []WeightedSeverity{
	{Debug, 5},
	{Info, 70},
	{Warning, 15},
	{Error, 8},
	{Critical, 2},
}

// A SeverityPicker draws severities according to a fixed set of weights
type SeverityPicker struct {
	choices    []Severity
	cumulative []int
	total      int
}

// NewSeverityPicker builds a picker. Zero weights are allowed, but at least
// one weight must be positive.
func NewSeverityPicker(weights []WeightedSeverity) (*SeverityPicker, error) {
	p := &SeverityPicker{}

	for _, w := range weights {
		if w.Weight < 0 {
			return nil, fmt.Errorf("negative weight %d for %s", w.Weight, w.Severity)
		}
		p.total += w.Weight
		p.choices = append(p.choices, w.Severity)
		p.cumulative = append(p.cumulative, p.total)
	}

	if p.total == 0 {
		return nil, fmt.Errorf("severity weights must sum to more than zero")
	}

	return p, nil
}

// Pick returns one severity using the supplied source of randomness
func (p *SeverityPicker) Pick(rnd *rand.Rand) Severity {
	n := rnd.Intn(p.total)
	for i, upper := range p.cumulative {
		if n < upper {
			return p.choices[i]
		}
	}

	// Unreachable while total > 0
	return p.choices[len(p.choices)-1]
}
