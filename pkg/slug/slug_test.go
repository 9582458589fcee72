// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leoFagundes/breakfast-budget-club/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Café da manhã":      "cafe-da-manha",
		"  Receitas  Fit!! ": "receitas-fit",
		"already-a-slug":     "already-a-slug",
		"":                   "",
	}
	for input, want := range tests {
		assert.Equal(t, want, slug.From(input), input)
	}
}

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"book-open":      "BookOpen",
		"BookOpen":       "BookOpen",
		"arrow_up_right": "ArrowUpRight",
		"shopping cart":  "ShoppingCart",
		"building2":      "Building2",
		"coffee":         "Coffee",
		"":               "",
	}
	for input, want := range tests {
		assert.Equal(t, want, slug.Pascal(input), input)
	}
}
