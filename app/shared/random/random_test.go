package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleKeepsElements(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	shuffled := make([]string, len(in))
	copy(shuffled, in)

	require.NoError(t, Shuffle(shuffled))
	assert.ElementsMatch(t, in, shuffled)
}

func TestSample(t *testing.T) {
	population := []string{"a", "b", "c"}

	tests := []struct {
		name string
		k    int
		want int
	}{
		{name: "subset", k: 2, want: 2},
		{name: "whole population", k: 3, want: 3},
		{name: "k larger than population is clamped", k: 10, want: 3},
		{name: "zero", k: 0, want: 0},
		{name: "negative", k: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sample(population, tt.k)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)

			seen := map[string]bool{}
			for _, v := range got {
				assert.Contains(t, population, v)
				assert.False(t, seen[v], "sample must not repeat %q", v)
				seen[v] = true
			}
			// input untouched
			assert.Equal(t, []string{"a", "b", "c"}, population)
		})
	}
}
