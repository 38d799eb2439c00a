package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsFresh(t *testing.T) {
	assert.False(t, IsFresh(time.Time{}, time.Hour))
	assert.True(t, IsFresh(time.Now().Add(-30*time.Minute), time.Hour))
	assert.False(t, IsFresh(time.Now().Add(-2*time.Hour), time.Hour))
}
