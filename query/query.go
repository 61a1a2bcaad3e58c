// Package query holds the read-only pipeline over products and cart items:
// filters, projections, stable sorts and reductions. Nothing here mutates its
// input.
package query

import (
	"cmp"
	"slices"
)

// Filter returns the elements that satisfy keep, in input order.
func Filter[T any](xs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// Map applies fn to every element.
func Map[T, U any](xs []T, fn func(T) U) []U {
	out := make([]U, len(xs))
	for i, x := range xs {
		out[i] = fn(x)
	}
	return out
}

// Reduce folds xs left to right starting from init.
func Reduce[T, A any](xs []T, init A, fn func(A, T) A) A {
	acc := init
	for _, x := range xs {
		acc = fn(acc, x)
	}
	return acc
}

// Compose chains fns in the order given: Compose(f, g)(x) == g(f(x)).
func Compose[T any](fns ...func(T) T) func(T) T {
	return func(v T) T {
		for _, fn := range fns {
			v = fn(v)
		}
		return v
	}
}

// SortBy returns a stably sorted copy of xs ordered by key.
func SortBy[T any, K cmp.Ordered](xs []T, key func(T) K, descending bool) []T {
	out := slices.Clone(xs)
	slices.SortStableFunc(out, func(a, b T) int {
		if descending {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return out
}

// Sorter returns a reusable sort function, suitable for Compose.
func Sorter[T any, K cmp.Ordered](key func(T) K, descending bool) func([]T) []T {
	return func(xs []T) []T { return SortBy(xs, key, descending) }
}
