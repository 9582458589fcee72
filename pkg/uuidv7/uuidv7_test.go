// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuidv7_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/pkg/uuidv7"
)

func TestNew(t *testing.T) {
	id := uuidv7.New()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.True(t, uuidv7.Valid(id))
	assert.False(t, uuidv7.Valid("nope"))
	assert.NotEqual(t, id, uuidv7.New())
}
