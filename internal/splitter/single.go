package splitter

import (
	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// splitFunc computes the one split a single-split strategy produces.
type splitFunc func(d dataset.Dataset) Split

// SingleSplitter is the shared shape of the fixed single-split strategies:
// it produces exactly one region-based fit/predict pair per run.
type SingleSplitter struct {
	iteration
	data dataset.Dataset
	name string
	fn   splitFunc
}

// NewTournament creates the tournament strategy: fit on the train region,
// predict on the tournament regions (validation, test and live).
func NewTournament(data dataset.Dataset) *SingleSplitter {
	return &SingleSplitter{
		iteration: boundedIteration(1),
		data:      data,
		name:      "TournamentSplitter",
		fn: func(d dataset.Dataset) Split {
			return Split{
				Fit:     d.RegionIn(dataset.RegionTrain),
				Predict: d.RegionIn(dataset.TournamentRegions()...),
			}
		},
	}
}

// NewValidation creates the validation strategy: fit on the train region,
// predict on the validation region.
func NewValidation(data dataset.Dataset) *SingleSplitter {
	return &SingleSplitter{
		iteration: boundedIteration(1),
		data:      data,
		name:      "ValidationSplitter",
		fn: func(d dataset.Dataset) Split {
			return Split{
				Fit:     d.RegionIn(dataset.RegionTrain),
				Predict: d.RegionIn(dataset.RegionValidation),
			}
		},
	}
}

// NewCheat creates the cheat strategy: fit on train plus validation, predict
// on validation. The predict partition is a subset of the fit partition,
// giving a deliberately leaky baseline for sanity checks.
func NewCheat(data dataset.Dataset) *SingleSplitter {
	return &SingleSplitter{
		iteration: boundedIteration(1),
		data:      data,
		name:      "CheatSplitter",
		fn: func(d dataset.Dataset) Split {
			return Split{
				Fit:     d.RegionIn(dataset.RegionTrain, dataset.RegionValidation),
				Predict: d.RegionIn(dataset.RegionValidation),
			}
		},
	}
}

// Next implements Splitter.
func (s *SingleSplitter) Next() (Split, error) {
	if err := s.tryAdvance(); err != nil {
		return Split{}, err
	}

	split := s.fn(s.data)
	s.advanced()

	return split, nil
}

// Reset implements Splitter.
func (s *SingleSplitter) Reset() {
	s.iteration.reset()
}

// Describe implements Splitter.
func (s *SingleSplitter) Describe() string {
	return s.name + "(data)"
}
