package carrot

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestApplyPermutationBackwards(t *testing.T) {
	t.Parallel()

	data := []string{"d", "c", "a", "e", "b"}
	permutation := []int{2, 4, 1, 0, 3}

	ApplyPermutationBackwards(permutation, data)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, data)
	require.Equal(t, []int{2, 4, 1, 0, 3}, permutation)

	t.Run("identity", func(t *testing.T) {
		data := []int{5, 6, 7}
		ApplyPermutationBackwards([]int{0, 1, 2}, data)
		require.Equal(t, []int{5, 6, 7}, data)
	})

	t.Run("length mismatch", func(t *testing.T) {
		require.Panics(t, func() {
			ApplyPermutationBackwards([]int{0, 1}, []int{1})
		})
	})

	t.Run("out of range", func(t *testing.T) {
		require.Panics(t, func() {
			ApplyPermutationBackwards([]int{0, 2}, []int{1, 2})
		})
	})

	t.Run("not a permutation", func(t *testing.T) {
		require.Panics(t, func() {
			ApplyPermutationBackwards([]int{1, 1}, []int{1, 2})
		})
	})
}

func TestApplyPermutationBackwardsProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Int()).Draw(t, "data")
		permutation := rapid.Permutation(indices(len(data))).Draw(t, "permutation")

		expected := make([]int, len(data))
		for i := range expected {
			expected[i] = data[permutation[i]]
		}
		original := slices.Clone(permutation)

		ApplyPermutationBackwards(permutation, data)
		if !slices.Equal(expected, data) {
			t.Fatalf("expected: %v, got: %v", expected, data)
		}
		if !slices.Equal(original, permutation) {
			t.Fatalf("permutation modified: expected: %v, got: %v", original, permutation)
		}
	})
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
