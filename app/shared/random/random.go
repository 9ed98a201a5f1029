package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a cryptographically secure Fisher-Yates shuffle of the
// slice in place.
func Shuffle[T any](slice []T) error {
	n := len(slice)
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Sample returns k elements drawn uniformly without replacement from
// population. If k exceeds the population size the whole population is
// returned. The input slice is not modified.
func Sample[T any](population []T, k int) ([]T, error) {
	if k > len(population) {
		k = len(population)
	}
	if k <= 0 {
		return nil, nil
	}
	picked := make([]T, len(population))
	copy(picked, population)
	if err := Shuffle(picked); err != nil {
		return nil, err
	}
	return picked[:k], nil
}
