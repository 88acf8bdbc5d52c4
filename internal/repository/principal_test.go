package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalRepository(t *testing.T) {
	repo := NewMemoryPrincipalRepository()
	ctx := context.Background()

	exists, err := repo.PrincipalExists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.RegisterPrincipal(ctx, "alice"))
	assert.ErrorIs(t, repo.RegisterPrincipal(ctx, "alice"), ErrPrincipalExists)

	exists, err = repo.PrincipalExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.PrincipalExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}
