package catalog

import (
	"strings"
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("Beverages", "Soft drinks and juices")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Beverages", category.Name)
		assert.Equal(t, "Soft drinks and juices", category.Description)
		assert.True(t, category.IsNew())
		assert.False(t, category.CreatedAt.IsZero())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		category, err := NewCategory("  Snacks  ", " crisps ")
		require.NoError(t, err)
		assert.Equal(t, "Snacks", category.Name)
		assert.Equal(t, "crisps", category.Description)
	})

	t.Run("allows empty description", func(t *testing.T) {
		category, err := NewCategory("Snacks", "")
		require.NoError(t, err)
		assert.Empty(t, category.Description)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("   ", "desc")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 101), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}

func TestCategory_Update(t *testing.T) {
	category, err := NewCategory("Beverages", "")
	require.NoError(t, err)
	before := category.UpdatedAt

	require.NoError(t, category.Update("Drinks", "All drinks"))
	assert.Equal(t, "Drinks", category.Name)
	assert.Equal(t, "All drinks", category.Description)
	assert.False(t, category.UpdatedAt.Before(before))

	err = category.Update("", "x")
	require.Error(t, err)
	assert.Equal(t, "Drinks", category.Name)
}
