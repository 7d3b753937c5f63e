package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseopen-dev/kazino/internal/domain"
)

func TestPick_EmptyTable(t *testing.T) {
	_, err := Pick(nil, 0.5)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestPick_AllNonPositiveWeights(t *testing.T) {
	_, err := Pick([]float64{0, -1, 0}, 0.5)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestPick_SingleEntry(t *testing.T) {
	for _, roll := range []float64{0, 0.5, 0.999999} {
		idx, err := Pick([]float64{3.5}, roll)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	}
}

func TestPick_BoundaryRolls(t *testing.T) {
	weights := []float64{80, 20}

	idx, err := Pick(weights, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "roll at 0 lands in the first entry")

	idx, err = Pick(weights, 0.799)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = Pick(weights, 0.801)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestPick_SkipsNonPositiveWeights(t *testing.T) {
	weights := []float64{0, 10, -5, 10}
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		idx, err := Pick(weights, Float64())
		require.NoError(t, err)
		seen[idx] = true
	}
	assert.False(t, seen[0])
	assert.False(t, seen[2])
	assert.True(t, seen[1])
	assert.True(t, seen[3])
}

// Large-sample draws must converge to weight/total within tolerance.
func TestPick_FrequencyConvergence(t *testing.T) {
	weights := []float64{45, 22, 16, 8, 4, 1.5, 0.5}
	var total float64
	for _, w := range weights {
		total += w
	}

	const samples = 200000
	counts := make([]int, len(weights))
	for i := 0; i < samples; i++ {
		idx, err := Pick(weights, Float64())
		require.NoError(t, err)
		counts[idx]++
	}

	for i, w := range weights {
		expected := w / total
		observed := float64(counts[i]) / samples
		assert.InDeltaf(t, expected, observed, 0.01,
			"tier %d: expected %.4f observed %.4f", i, expected, observed)
	}
}

func TestTrial(t *testing.T) {
	tests := []struct {
		name   string
		chance int
		roll   float64
		want   bool
	}{
		{"zero chance never succeeds", 0, 0.0, false},
		{"full chance always succeeds", 100, 0.999, true},
		{"roll under chance", 50, 0.49, true},
		{"roll at chance boundary", 50, 0.5, false},
		{"roll above chance", 15, 0.16, false},
		{"negative chance", -5, 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trial(tt.chance, tt.roll))
		})
	}
}

func TestTrial_Frequency(t *testing.T) {
	const samples = 100000
	wins := 0
	for i := 0; i < samples; i++ {
		if Trial(25, Float64()) {
			wins++
		}
	}
	assert.InDelta(t, 0.25, float64(wins)/samples, 0.01)
}

func TestFloat64_Range(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
		require.False(t, math.IsNaN(v))
	}
}
