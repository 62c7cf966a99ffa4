package comparison_test

import (
	"testing"

	"github.com/gttsch/gtsf/utils/comparison"
	"github.com/stretchr/testify/assert"
)

func TestMinMaxClamp(t *testing.T) {
	assert.Equal(t, 2, comparison.Min(2, 5))
	assert.Equal(t, 5, comparison.Max(2, 5))
	assert.Equal(t, uint16(3), comparison.Clamp(uint16(3), 1, 20))
	assert.Equal(t, 20, comparison.Clamp(44, 1, 20))
	assert.Equal(t, 1, comparison.Clamp(-3, 1, 20))
}
