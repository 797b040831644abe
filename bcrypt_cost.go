//go:build !race

package profile

func passwordHashCost() int {
	return 14
}
