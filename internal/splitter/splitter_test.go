package splitter

import (
	"testing"

	"github.com/rxtech-lab/erasplit/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDataset builds an in-memory dataset, failing the test on invalid
// fixtures.
func newTestDataset(t *testing.T, rows []dataset.Row) dataset.Dataset {
	t.Helper()

	d, err := dataset.NewInMemoryDataset(rows)
	require.NoError(t, err)

	return d
}

// regionRows produces rowsPerEra rows for each era, all in the given region.
// Each row carries a unique id in its first feature so row sets can be
// compared across views.
func regionRows(region dataset.Region, eras []string, rowsPerEra int, nextID *float64) []dataset.Row {
	var rows []dataset.Row

	for _, era := range eras {
		for r := 0; r < rowsPerEra; r++ {
			rows = append(rows, dataset.Row{
				Era:      era,
				Region:   region,
				Label:    0.5,
				Features: []float64{*nextID, float64(r)},
			})
			*nextID++
		}
	}

	return rows
}

// newRegionDataset builds the standard fixture: six train eras, two
// validation eras, one test era and one live era, two rows each.
func newRegionDataset(t *testing.T) dataset.Dataset {
	t.Helper()

	id := 0.0

	rows := regionRows(dataset.RegionTrain,
		[]string{"era01", "era02", "era03", "era04", "era05", "era06"}, 2, &id)
	rows = append(rows, regionRows(dataset.RegionValidation, []string{"era07", "era08"}, 2, &id)...)
	rows = append(rows, regionRows(dataset.RegionTest, []string{"era09"}, 2, &id)...)
	rows = append(rows, regionRows(dataset.RegionLive, []string{"era10"}, 2, &id)...)

	return newTestDataset(t, rows)
}

// rowIDs collects the unique row ids of a view.
func rowIDs(d dataset.Dataset) map[float64]struct{} {
	ids := make(map[float64]struct{}, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		ids[d.Features(i)[0]] = struct{}{}
	}

	return ids
}

// assertRowsDisjoint fails if any row appears in both views.
func assertRowsDisjoint(t *testing.T, fit, predict dataset.Dataset) {
	t.Helper()

	fitIDs := rowIDs(fit)
	for id := range rowIDs(predict) {
		assert.NotContains(t, fitIDs, id, "row %v appears in both fit and predict", id)
	}
}

// assertErasDisjoint fails if any era appears in both views.
func assertErasDisjoint(t *testing.T, fit, predict dataset.Dataset) {
	t.Helper()

	fitEras := DistinctEras(fit)
	for _, era := range DistinctEras(predict) {
		assert.NotContains(t, fitEras, era, "era %s appears in both fit and predict", era)
	}
}

// collectSplits drains a splitter, failing on any error other than ErrDone.
func collectSplits(t *testing.T, s Splitter) []Split {
	t.Helper()

	var splits []Split

	for {
		split, err := s.Next()
		if err != nil {
			require.ErrorIs(t, err, ErrDone)
			return splits
		}

		splits = append(splits, split)
	}
}

// splitSignature renders a split as era lists plus row counts for
// sequence-equality comparisons.
func splitSignature(split Split) [2]any {
	return [2]any{
		append(DistinctEras(split.Fit), DistinctEras(split.Predict)...),
		[2]int{split.Fit.NumRows(), split.Predict.NumRows()},
	}
}

func TestExhaustedSplitterStaysExhausted(t *testing.T) {
	s := NewValidation(newRegionDataset(t))

	_, err := s.Next()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.Next()
		assert.ErrorIs(t, err, ErrDone)
	}
}

func TestResetAfterExhaustion(t *testing.T) {
	s := NewTournament(newRegionDataset(t))

	first := collectSplits(t, s)
	require.Len(t, first, 1)

	s.Reset()

	second := collectSplits(t, s)
	require.Len(t, second, 1)
	assert.Equal(t, splitSignature(first[0]), splitSignature(second[0]))
}

func TestResetMidRun(t *testing.T) {
	data := newRegionDataset(t)

	s, err := NewGroupedCV(data, CVConfig{KFold: 3, Seed: 7, TrainOnly: true})
	require.NoError(t, err)

	full := collectSplits(t, s)
	require.Len(t, full, 3)

	// Resetting after a partial run restarts the sequence from the beginning
	s.Reset()
	_, err = s.Next()
	require.NoError(t, err)
	s.Reset()

	again := collectSplits(t, s)
	require.Len(t, again, 3)

	for i := range full {
		assert.Equal(t, splitSignature(full[i]), splitSignature(again[i]))
	}
}
