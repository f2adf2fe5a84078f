package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowQuota_WithinLimit(t *testing.T) {
	q := NewRowQuota(3)
	assert.NoError(t, q.Check("q", 0))
	assert.NoError(t, q.Check("q", 3))
	assert.Equal(t, 3, q.MaxRows())
}

func TestRowQuota_ExceedsLimit(t *testing.T) {
	err := NewRowQuota(3).Check("q-1", 4)
	require.Error(t, err)

	var re *RowsExceededError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "q-1", re.QueryID)
	assert.Equal(t, 4, re.Rows)
	assert.Equal(t, 3, re.Limit)
	assert.Equal(t, "query q-1 exceeded row quota: 4 rows > 3 limit", err.Error())
}

func TestRowQuota_ZeroDisables(t *testing.T) {
	assert.NoError(t, NewRowQuota(0).Check("q", 1_000_000))
}

func TestIsRowsExceededError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &RowsExceededError{QueryID: "q"})
	assert.True(t, IsRowsExceededError(err))
	assert.False(t, IsRowsExceededError(fmt.Errorf("other")))
}
