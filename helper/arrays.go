package helper

import "slices"

// Contains returns true if elem is in slice.
// This is just a thin wrapper around slices.Contains for clarity.
func Contains[T comparable](slice []T, elem T) bool {
	return slices.Contains(slice, elem)
}

func IndexFunc[T any](slice []T, match func(T) bool) int {
	return slices.IndexFunc(slice, match)
}

func Ptr[T any](v T) *T {
	return &v
}
