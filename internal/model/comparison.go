package model

// Comparison holds one property of the base raster and the same property of
// the test raster, plus whether the two are considered equal.
type Comparison[T any] struct {
	// Equal is true when Base and Test match.
	Equal bool `json:"equal"`

	// Base is the value read from the base raster.
	Base T `json:"base"`

	// Test is the value read from the test raster.
	Test T `json:"test"`
}

// Compare builds a Comparison using ==.
func Compare[T comparable](base, test T) Comparison[T] {
	return Comparison[T]{Equal: base == test, Base: base, Test: test}
}

// CompareFunc builds a Comparison using eq to decide equality.
func CompareFunc[T any](base, test T, eq func(a, b T) bool) Comparison[T] {
	return Comparison[T]{Equal: eq(base, test), Base: base, Test: test}
}
