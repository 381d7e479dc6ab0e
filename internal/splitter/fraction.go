package splitter

import (
	"fmt"
	"math/rand"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// FractionSplitter produces a single randomized fit/predict split: distinct
// eras are shuffled with a seeded permutation and the first
// round(fit_fraction * era_count) eras become the fit partition.
type FractionSplitter struct {
	iteration
	data   dataset.Dataset
	config FractionConfig

	// resolved on the first Next of a run
	scope optional.Option[dataset.Dataset]
	eras  optional.Option[[]string]
}

// NewFraction creates a fraction splitter. The configuration is validated
// here; invalid fractions are rejected, never clamped.
func NewFraction(data dataset.Dataset, config FractionConfig) (*FractionSplitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &FractionSplitter{
		iteration: boundedIteration(1),
		data:      data,
		config:    config,
		scope:     optional.None[dataset.Dataset](),
		eras:      optional.None[[]string](),
	}, nil
}

// Next implements Splitter.
func (s *FractionSplitter) Next() (Split, error) {
	if err := s.tryAdvance(); err != nil {
		return Split{}, err
	}

	if s.fresh() {
		scope := s.data
		if s.config.TrainOnly {
			scope = scope.RegionIn(dataset.RegionTrain)
		}

		eras := DistinctEras(scope)

		rng := rand.New(rand.NewSource(s.config.Seed))
		rng.Shuffle(len(eras), func(i, j int) {
			eras[i], eras[j] = eras[j], eras[i]
		})

		s.scope = optional.Some(scope)
		s.eras = optional.Some(eras)
	}

	scope := s.scope.Unwrap()
	eras := s.eras.Unwrap()

	// round half up, biasing .5 cases toward more fit eras
	numFit := int(s.config.FitFraction*float64(len(eras)) + 0.5)

	split := Split{
		Fit:     scope.EraIn(eras[:numFit]...),
		Predict: scope.EraIn(eras[numFit:]...),
	}

	s.advanced()

	return split, nil
}

// Reset implements Splitter.
func (s *FractionSplitter) Reset() {
	s.iteration.reset()
	s.scope = optional.None[dataset.Dataset]()
	s.eras = optional.None[[]string]()
}

// Describe implements Splitter.
func (s *FractionSplitter) Describe() string {
	return fmt.Sprintf("FractionSplitter(data, fit_fraction=%v, seed=%d, train_only=%t)",
		s.config.FitFraction, s.config.Seed, s.config.TrainOnly)
}
