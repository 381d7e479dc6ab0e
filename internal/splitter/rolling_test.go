package splitter

import (
	"testing"

	"github.com/rxtech-lab/erasplit/internal/dataset"
	"github.com/rxtech-lab/erasplit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRollingDataset(t *testing.T) dataset.Dataset {
	t.Helper()

	id := 0.0
	eras := []string{"era00", "era01", "era02", "era03", "era04", "era05"}

	return newTestDataset(t, regionRows(dataset.RegionTrain, eras, 1, &id))
}

func TestRollingWindowWalk(t *testing.T) {
	data := newRollingDataset(t)

	s, err := NewRollingWindow(data, RollingConfig{
		FitWindow:     2,
		PredictWindow: 1,
		Step:          1,
		TrainOnly:     true,
	})
	require.NoError(t, err)

	expected := []struct {
		fit     []string
		predict []string
	}{
		{fit: []string{"era00", "era01"}, predict: []string{"era02"}},
		{fit: []string{"era01", "era02"}, predict: []string{"era03"}},
		{fit: []string{"era02", "era03"}, predict: []string{"era04"}},
		{fit: []string{"era03", "era04"}, predict: []string{"era05"}},
	}

	for i, want := range expected {
		split, err := s.Next()
		require.NoError(t, err, "iteration %d", i)

		assert.Equal(t, want.fit, DistinctEras(split.Fit), "iteration %d fit", i)
		assert.Equal(t, want.predict, DistinctEras(split.Predict), "iteration %d predict", i)
		assertRowsDisjoint(t, split.Fit, split.Predict)
		assertErasDisjoint(t, split.Fit, split.Predict)
	}

	// The predict range [6, 7) exceeds the six available eras
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrDone)
}

func TestRollingWindowLargeStep(t *testing.T) {
	data := newRollingDataset(t)

	s, err := NewRollingWindow(data, RollingConfig{
		FitWindow:     2,
		PredictWindow: 2,
		Step:          2,
		TrainOnly:     true,
	})
	require.NoError(t, err)

	splits := collectSplits(t, s)
	require.Len(t, splits, 2)

	assert.Equal(t, []string{"era00", "era01"}, DistinctEras(splits[0].Fit))
	assert.Equal(t, []string{"era02", "era03"}, DistinctEras(splits[0].Predict))
	assert.Equal(t, []string{"era02", "era03"}, DistinctEras(splits[1].Fit))
	assert.Equal(t, []string{"era04", "era05"}, DistinctEras(splits[1].Predict))
}

func TestRollingWindowTooWideProducesNoSplits(t *testing.T) {
	data := newRollingDataset(t)

	s, err := NewRollingWindow(data, RollingConfig{
		FitWindow:     5,
		PredictWindow: 2,
		Step:          1,
		TrainOnly:     true,
	})
	require.NoError(t, err)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrDone)
}

func TestRollingWindowResetReproduces(t *testing.T) {
	data := newRollingDataset(t)

	s, err := NewRollingWindow(data, RollingConfig{
		FitWindow:     2,
		PredictWindow: 1,
		Step:          1,
		TrainOnly:     true,
	})
	require.NoError(t, err)

	first := collectSplits(t, s)
	s.Reset()
	second := collectSplits(t, s)

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, splitSignature(first[i]), splitSignature(second[i]))
	}
}

func TestRollingWindowRejectsInvalidConfig(t *testing.T) {
	data := newRollingDataset(t)

	configs := []RollingConfig{
		{FitWindow: 0, PredictWindow: 1, Step: 1},
		{FitWindow: 2, PredictWindow: 0, Step: 1},
		{FitWindow: 2, PredictWindow: 1, Step: 0},
		{FitWindow: -1, PredictWindow: 1, Step: 1},
	}

	for _, config := range configs {
		_, err := NewRollingWindow(data, config)
		require.Error(t, err, "%+v", config)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidWindow))
	}
}

func TestWindowErasPanicsOnOverlap(t *testing.T) {
	eras := []string{"era00", "era01", "era02", "era03"}

	assert.Panics(t, func() {
		windowEras(eras, 0, 3, 2, 4)
	})
}

func TestRollingWindowDescribe(t *testing.T) {
	data := newRollingDataset(t)

	s, err := NewRollingWindow(data, RollingConfig{
		FitWindow:     2,
		PredictWindow: 1,
		Step:          1,
		TrainOnly:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "RollSplitter(data, fit_window=2, predict_window=1, step=1, train_only=true)", s.Describe())
}
