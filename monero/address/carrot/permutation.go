package carrot

import "git.gammaspectra.live/P2Pool/carrot/utils"

// ApplyPermutationBackwards reorders data in place so that data'[i] = data[permutation[i]]
// Visited indices are marked by complementing them, permutation holds its original values on return
func ApplyPermutationBackwards[T any](permutation []int, data []T) {
	if len(permutation) != len(data) {
		utils.Panicf("permutation length %d does not match data length %d", len(permutation), len(data))
	}

	for i := range permutation {
		if permutation[i] < 0 {
			continue
		}

		current := i
		first := data[i]
		for {
			next := permutation[current]
			if next < 0 || next >= len(data) {
				utils.Panicf("invalid permutation index %d", next)
			}
			permutation[current] = ^next
			if next == i {
				data[current] = first
				break
			}
			data[current] = data[next]
			current = next
		}
	}

	for i := range permutation {
		permutation[i] = ^permutation[i]
	}
}
