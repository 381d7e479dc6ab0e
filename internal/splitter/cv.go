package splitter

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/erasplit/internal/dataset"
)

// foldPlan is a precomputed k-way index partition consumed strictly in
// order. It is built once per run, on the first Next call, and must not be
// shared between concurrent iterations.
type foldPlan struct {
	folds [][]int
	next  int
}

// take returns the next fold in sequence, or false when all folds have been
// consumed.
func (p *foldPlan) take() ([]int, bool) {
	if p.next >= len(p.folds) {
		return nil, false
	}

	fold := p.folds[p.next]
	p.next++

	return fold, true
}

// size returns the total number of indices across all folds.
func (p *foldPlan) size() int {
	total := 0
	for _, fold := range p.folds {
		total += len(fold)
	}

	return total
}

// complement returns every index of the plan not contained in fold.
func (p *foldPlan) complement(fold []int) []int {
	inFold := make(map[int]struct{}, len(fold))
	for _, idx := range fold {
		inFold[idx] = struct{}{}
	}

	out := make([]int, 0, p.size()-len(fold))

	for _, f := range p.folds {
		for _, idx := range f {
			if _, ok := inFold[idx]; !ok {
				out = append(out, idx)
			}
		}
	}

	sort.Ints(out)

	return out
}

// shuffledFolds partitions a seeded shuffle of [0, n) into k contiguous
// folds. The first n%k folds take one extra index so fold sizes differ by at
// most one.
func shuffledFolds(n, k int, seed int64) [][]int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	folds := make([][]int, k)
	start := 0

	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}

		folds[i] = order[start : start+size]
		start += size
	}

	return folds
}

// stratifiedFolds partitions row indices into k folds so that each fold
// approximates the overall label distribution: rows are grouped by label
// value, each group is shuffled, and group members are dealt to folds in
// round-robin order.
func stratifiedFolds(labels []float64, k int, seed int64) [][]int {
	groups := make(map[string][]int)

	for i, label := range labels {
		// string keys keep NaN labels in a single group
		key := strconv.FormatFloat(label, 'g', -1, 64)
		groups[key] = append(groups[key], i)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	deal := 0

	for _, key := range keys {
		indices := groups[key]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		for _, idx := range indices {
			folds[deal%k] = append(folds[deal%k], idx)
			deal++
		}
	}

	return folds
}

// GroupedCVSplitter produces k-fold cross-validation splits over distinct
// eras: eras are shuffled into k folds, and on iteration i fold i supplies
// the predict eras while the remaining folds supply the fit eras. No era
// appears on both sides of any split.
type GroupedCVSplitter struct {
	iteration
	data   dataset.Dataset
	config CVConfig

	scope optional.Option[dataset.Dataset]
	eras  optional.Option[[]string]
	plan  optional.Option[*foldPlan]
}

// NewGroupedCV creates a grouped cross-validation splitter.
func NewGroupedCV(data dataset.Dataset, config CVConfig) (*GroupedCVSplitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &GroupedCVSplitter{
		iteration: boundedIteration(config.KFold),
		data:      data,
		config:    config,
		scope:     optional.None[dataset.Dataset](),
		eras:      optional.None[[]string](),
		plan:      optional.None[*foldPlan](),
	}, nil
}

// Next implements Splitter.
func (s *GroupedCVSplitter) Next() (Split, error) {
	if err := s.tryAdvance(); err != nil {
		return Split{}, err
	}

	if s.fresh() {
		scope := s.data
		if s.config.TrainOnly {
			scope = scope.RegionIn(dataset.RegionTrain)
		}

		eras := DistinctEras(scope)

		s.scope = optional.Some(scope)
		s.eras = optional.Some(eras)
		s.plan = optional.Some(&foldPlan{folds: shuffledFolds(len(eras), s.config.KFold, s.config.Seed)})
	}

	scope := s.scope.Unwrap()
	eras := s.eras.Unwrap()
	plan := s.plan.Unwrap()

	fold, ok := plan.take()
	if !ok {
		s.exhaust()
		return Split{}, ErrDone
	}

	predictEras := make([]string, 0, len(fold))
	for _, idx := range fold {
		predictEras = append(predictEras, eras[idx])
	}

	fitEras := make([]string, 0, len(eras)-len(fold))
	for _, idx := range plan.complement(fold) {
		fitEras = append(fitEras, eras[idx])
	}

	split := Split{
		Fit:     scope.EraIn(fitEras...),
		Predict: scope.EraIn(predictEras...),
	}

	s.advanced()

	return split, nil
}

// Reset implements Splitter.
func (s *GroupedCVSplitter) Reset() {
	s.iteration.reset()
	s.scope = optional.None[dataset.Dataset]()
	s.eras = optional.None[[]string]()
	s.plan = optional.None[*foldPlan]()
}

// Describe implements Splitter.
func (s *GroupedCVSplitter) Describe() string {
	return fmt.Sprintf("CVSplitter(data, kfold=%d, seed=%d, train_only=%t)",
		s.config.KFold, s.config.Seed, s.config.TrainOnly)
}

// StratifiedCVSplitter produces k-fold cross-validation splits over
// individual rows, ignoring era grouping entirely. Folds are stratified on
// the label value distribution, so each fold approximates the overall
// distribution. Rows of one era may land on both sides of a split.
type StratifiedCVSplitter struct {
	iteration
	data   dataset.Dataset
	config CVConfig

	scope optional.Option[dataset.Dataset]
	plan  optional.Option[*foldPlan]
}

// NewStratifiedCV creates a stratified cross-validation splitter.
func NewStratifiedCV(data dataset.Dataset, config CVConfig) (*StratifiedCVSplitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &StratifiedCVSplitter{
		iteration: boundedIteration(config.KFold),
		data:      data,
		config:    config,
		scope:     optional.None[dataset.Dataset](),
		plan:      optional.None[*foldPlan](),
	}, nil
}

// Next implements Splitter.
func (s *StratifiedCVSplitter) Next() (Split, error) {
	if err := s.tryAdvance(); err != nil {
		return Split{}, err
	}

	if s.fresh() {
		scope := s.data
		if s.config.TrainOnly {
			scope = scope.RegionIn(dataset.RegionTrain)
		}

		labels := make([]float64, scope.NumRows())
		for i := range labels {
			labels[i] = scope.Label(i)
		}

		s.scope = optional.Some(scope)
		s.plan = optional.Some(&foldPlan{folds: stratifiedFolds(labels, s.config.KFold, s.config.Seed)})
	}

	scope := s.scope.Unwrap()
	plan := s.plan.Unwrap()

	fold, ok := plan.take()
	if !ok {
		s.exhaust()
		return Split{}, ErrDone
	}

	split := Split{
		Fit:     scope.RowsIn(plan.complement(fold)),
		Predict: scope.RowsIn(fold),
	}

	s.advanced()

	return split, nil
}

// Reset implements Splitter.
func (s *StratifiedCVSplitter) Reset() {
	s.iteration.reset()
	s.scope = optional.None[dataset.Dataset]()
	s.plan = optional.None[*foldPlan]()
}

// Describe implements Splitter.
func (s *StratifiedCVSplitter) Describe() string {
	return fmt.Sprintf("StratifiedCVSplitter(data, kfold=%d, seed=%d, train_only=%t)",
		s.config.KFold, s.config.Seed, s.config.TrainOnly)
}
