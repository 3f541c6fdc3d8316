// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the cart and catalog code folds
// their line lists with. It sits next to the standard [slices] package and
// only covers what that package lacks.
package slice

// Map returns transform applied to every element, in order. A nil input
// stays nil so that JSON encoders keep emitting null for absent lists.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	output := make([]U, 0, len(input))
	for _, element := range input {
		output = append(output, transform(element))
	}
	return output
}

// Filter keeps the elements accepted by keep, in order. The result is never
// nil, even when nothing matches.
func Filter[T any](input []T, keep func(T) bool) []T {
	output := []T{}
	for _, element := range input {
		if keep(element) {
			output = append(output, element)
		}
	}
	return output
}

// Reduce folds input from the left, starting at initial.
func Reduce[T, A any](input []T, initial A, fold func(accumulator A, element T) A) A {
	accumulator := initial
	for _, element := range input {
		accumulator = fold(accumulator, element)
	}
	return accumulator
}
