package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecomcli/internal/operations"
)

func TestProgressTracker(t *testing.T) {
	p := operations.NewProgressTracker("run", 4)
	assert.Equal(t, "calculating...", p.GetETA())
	assert.False(t, p.IsComplete())

	current, pct := p.Increment("exploration")
	assert.Equal(t, 1, current)
	assert.Equal(t, 25.0, pct)

	p.Increment("cleaning")
	p.Increment("rfm")
	p.Increment("monthly_sales")

	current, total, pct, msg := p.GetProgress()
	assert.Equal(t, 4, current)
	assert.Equal(t, 4, total)
	assert.Equal(t, 100.0, pct)
	assert.Equal(t, "monthly_sales", msg)
	assert.True(t, p.IsComplete())
	assert.Contains(t, p.GetETA(), "seconds")

	_, zero := operations.NewProgressTracker("empty", 0).Increment("x")
	assert.Zero(t, zero)
}
