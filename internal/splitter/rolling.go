package splitter

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// RollingWindowSplitter rolls fixed-size fit and predict windows forward
// through the ordered distinct eras. On iteration i the fit window covers
// era positions [i*step, i*step+fit_window) and the predict window the
// following predict_window positions. The sequence ends when the predict
// window would run past the last era.
type RollingWindowSplitter struct {
	iteration
	data   dataset.Dataset
	config RollingConfig

	scope optional.Option[dataset.Dataset]
	eras  optional.Option[[]string]
}

// NewRollingWindow creates a rolling window splitter. Non-positive window
// sizes or step are rejected here.
func NewRollingWindow(data dataset.Dataset, config RollingConfig) (*RollingWindowSplitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RollingWindowSplitter{
		iteration: unboundedIteration(),
		data:      data,
		config:    config,
		scope:     optional.None[dataset.Dataset](),
		eras:      optional.None[[]string](),
	}, nil
}

// Next implements Splitter.
func (s *RollingWindowSplitter) Next() (Split, error) {
	if err := s.tryAdvance(); err != nil {
		return Split{}, err
	}

	if s.fresh() {
		scope := s.data
		if s.config.TrainOnly {
			scope = scope.RegionIn(dataset.RegionTrain)
		}

		s.scope = optional.Some(scope)
		s.eras = optional.Some(DistinctEras(scope))
	}

	scope := s.scope.Unwrap()
	eras := s.eras.Unwrap()

	fitStart := s.count * s.config.Step
	fitEnd := fitStart + s.config.FitWindow
	predictStart := fitEnd
	predictEnd := predictStart + s.config.PredictWindow

	if predictEnd > len(eras) {
		s.exhaust()
		return Split{}, ErrDone
	}

	fitEras, predictEras := windowEras(eras, fitStart, fitEnd, predictStart, predictEnd)

	split := Split{
		Fit:     scope.EraIn(fitEras...),
		Predict: scope.EraIn(predictEras...),
	}

	s.advanced()

	return split, nil
}

// Reset implements Splitter.
func (s *RollingWindowSplitter) Reset() {
	s.iteration.reset()
	s.scope = optional.None[dataset.Dataset]()
	s.eras = optional.None[[]string]()
}

// Describe implements Splitter.
func (s *RollingWindowSplitter) Describe() string {
	return fmt.Sprintf("RollSplitter(data, fit_window=%d, predict_window=%d, step=%d, train_only=%t)",
		s.config.FitWindow, s.config.PredictWindow, s.config.Step, s.config.TrainOnly)
}

// windowEras assigns era positions to the fit and predict ranges. A position
// matching both ranges means the window arithmetic is broken; that is a
// programming defect, not a runtime condition, so it panics.
func windowEras(eras []string, fitStart, fitEnd, predictStart, predictEnd int) ([]string, []string) {
	var fitEras, predictEras []string

	for pos, era := range eras {
		assigned := 0

		if pos >= fitStart && pos < fitEnd {
			fitEras = append(fitEras, era)
			assigned++
		}

		if pos >= predictStart && pos < predictEnd {
			predictEras = append(predictEras, era)
			assigned++
		}

		if assigned > 1 {
			panic(fmt.Sprintf("erasplit: era position %d assigned to both fit and predict windows", pos))
		}
	}

	return fitEras, predictEras
}
