// Package sequence mints human-readable, monotonically increasing numbers
// from named counters kept in the shared store.
package sequence

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/xelth-com/docketgo/internal/store"
)

// JobCounter is the counter backing job numbers.
const JobCounter = "JOB"

// Generator hands out sequence values. Uniqueness across service instances
// comes from the store's atomic increment; Generator holds no state.
type Generator struct {
	counter store.Sequencer
}

// NewGenerator creates a generator over the given sequencer.
func NewGenerator(counter store.Sequencer) *Generator {
	return &Generator{counter: counter}
}

// Next returns the next value of the named counter. Values burned by a
// failed caller are never reused.
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	seq, err := g.counter.NextSequence(ctx, name)
	if err != nil {
		return 0, errors.Wrapf(err, "next sequence for %s", name)
	}
	return seq, nil
}

// NextJobNumber allocates and formats the next job number.
func (g *Generator) NextJobNumber(ctx context.Context) (string, error) {
	seq, err := g.Next(ctx, JobCounter)
	if err != nil {
		return "", err
	}
	return JobNumber(seq), nil
}

// JobNumber formats seq as JOB-0001. Values above 9999 keep all digits.
func JobNumber(seq int64) string {
	return fmt.Sprintf("%s-%04d", JobCounter, seq)
}
