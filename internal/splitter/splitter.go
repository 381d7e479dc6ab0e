// Package splitter implements dataset-partitioning strategies over labeled,
// era-grouped tabular data. Each strategy yields a sequence of fit/predict
// dataset pairs through a shared pull-based iteration contract.
package splitter

import (
	stderrors "errors"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// ErrDone is returned by Next once a splitter has produced all of its
// splits. It signals expected termination, not a failure.
var ErrDone = stderrors.New("erasplit: no more splits")

// Split is one fit/predict pair. Fit and Predict are disjoint views of the
// source dataset for every strategy except Cheat, which overlaps them on
// purpose. Their union does not need to cover the source dataset.
type Split struct {
	Fit     dataset.Dataset
	Predict dataset.Dataset
}

// Splitter is the iteration contract shared by all strategies.
//
// A Splitter is a single-writer cursor: one call site drives Next at a time.
// Independent splitters over the same dataset may run concurrently since
// dataset views are read-only.
type Splitter interface {
	// Next returns the next fit/predict pair, or ErrDone when the sequence
	// is exhausted. Strategy state (resolved eras, fold plans, shuffled
	// orders) is computed lazily on the first call after construction or
	// Reset, never in constructors.
	Next() (Split, error)
	// Reset returns the splitter to its initial state, clearing cached
	// state but keeping parameters. Re-iteration reproduces the identical
	// split sequence.
	Reset()
	// Describe returns a human-readable description of the strategy and its
	// bound parameters, for logging.
	Describe() string
}

type iterState int

const (
	stateFresh iterState = iota
	stateActive
	stateExhausted
)

// iteration is the Fresh/Active/Exhausted state machine embedded by every
// strategy. maxSplits is the total number of pairs a bounded strategy
// produces; None means the bound is discovered dynamically.
type iteration struct {
	state     iterState
	count     int
	maxSplits optional.Option[int]
}

func boundedIteration(n int) iteration {
	return iteration{state: stateFresh, count: 0, maxSplits: optional.Some(n)}
}

func unboundedIteration() iteration {
	return iteration{state: stateFresh, count: 0, maxSplits: optional.None[int]()}
}

// tryAdvance gates a Next call. It returns ErrDone when the strategy is
// already exhausted or advancing would exceed the bound.
func (it *iteration) tryAdvance() error {
	if it.state == stateExhausted {
		return ErrDone
	}

	if it.maxSplits.IsSome() && it.count >= it.maxSplits.Unwrap() {
		it.state = stateExhausted
		return ErrDone
	}

	return nil
}

// fresh reports whether no split has been produced since construction or the
// last reset, i.e. cached state must be (re)computed.
func (it *iteration) fresh() bool {
	return it.state == stateFresh
}

// advanced records a successfully produced split.
func (it *iteration) advanced() {
	it.state = stateActive
	it.count++
}

// exhaust moves the state machine to Exhausted, used by strategies that
// discover their bound dynamically.
func (it *iteration) exhaust() {
	it.state = stateExhausted
}

func (it *iteration) reset() {
	it.state = stateFresh
	it.count = 0
}
