// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/coursecraft/internal/services/auth"
)

func TestGenerateCode(t *testing.T) {
	code, err := auth.GenerateCode()

	require.NoError(t, err)
	assert.Len(t, code, 6)

	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		code, err := auth.GenerateCode()
		require.NoError(t, err)
		seen[code] = true
	}

	// 20 draws from a million-value space colliding down to one value
	// would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestHashAndVerifyCode(t *testing.T) {
	hash, err := auth.HashCode("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, auth.VerifyCode("123456", hash))
	assert.False(t, auth.VerifyCode("654321", hash))
}
