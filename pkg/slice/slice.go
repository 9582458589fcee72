// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic Map and Filter helpers missing from [slices].
package slice

// Map applies transform to every element. The result is never nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for index, value := range input {
		result[index] = transform(value)
	}
	return result
}

// Filter keeps the elements for which keep returns true, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	var result []T
	for _, value := range input {
		if keep(value) {
			result = append(result, value)
		}
	}
	return result
}
