package review

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	rv, err := NewReview(uuid.New(), uuid.New(), 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, rv.Rating())

	for _, rating := range []int{0, 6, -1} {
		_, err := NewReview(uuid.New(), uuid.New(), rating, "")
		assert.EqualError(t, err, "rating must be between 1 and 5")
	}
}
