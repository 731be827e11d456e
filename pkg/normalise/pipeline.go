// Package normalise provides the ordered text transforms applied to a
// document between ingestion and decoding.
//
// Each step mutates the document in place. The default pipeline is
// repeat-safe: running it twice leaves the document as one run did.
package normalise

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/reprint/internal/logger"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// Step transforms a document in place.
type Step interface {
	// Apply mutates doc. An error aborts the pipeline.
	Apply(doc *richtext.Document) error

	// Name returns the step name for logging/debugging.
	Name() string
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name string
	fn   func(*richtext.Document) error
}

// Func returns a named step calling fn.
func Func(name string, fn func(*richtext.Document) error) StepFunc {
	return StepFunc{name: name, fn: fn}
}

// Apply calls the wrapped function.
func (s StepFunc) Apply(doc *richtext.Document) error {
	return s.fn(doc)
}

// Name returns the step name.
func (s StepFunc) Name() string {
	return s.name
}

// Pipeline applies steps in sequence, once each.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline applying steps in the order provided.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the pipeline's steps in order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Run applies every step to doc, stopping at the first error.
func (p *Pipeline) Run(doc *richtext.Document) error {
	_, err := p.RunWithStats(doc)
	return err
}

// RunWithStats applies every step and records what each one did.
// On error the returned stats cover the steps that ran, including the failing one.
func (p *Pipeline) RunWithStats(doc *richtext.Document) (*Stats, error) {
	stats := &Stats{}
	start := time.Now()
	defer func() { stats.TotalDuration = time.Since(start) }()

	for _, step := range p.steps {
		before := doc.Len()
		t := time.Now()
		err := step.Apply(doc)

		st := StepStats{
			Name:          step.Name(),
			EntriesBefore: before,
			EntriesAfter:  doc.Len(),
			Duration:      time.Since(t),
		}
		stats.Steps = append(stats.Steps, st)

		if err != nil {
			return stats, fmt.Errorf("normalise %s: %w", step.Name(), err)
		}

		logger.Debug("normalise step",
			"step", st.Name,
			"entries_before", st.EntriesBefore,
			"entries_after", st.EntriesAfter,
			"duration", st.Duration)
	}

	return stats, nil
}

// Name returns the names of all steps.
func (p *Pipeline) Name() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return "pipeline(" + strings.Join(names, "->") + ")"
}
