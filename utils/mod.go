package utils

import "golang.org/x/exp/constraints"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Manhattan returns |r1-r2| + |c1-c2|.
func Manhattan(r1, c1, r2, c2 int) int {
	return Abs(r1-r2) + Abs(c1-c2)
}
