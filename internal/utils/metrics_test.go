package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()

	mc.IncrementRequests()
	mc.IncrementErrors()

	mc.AddOperationLatency("create_post", 5*time.Millisecond)
	mc.AddOperationLatency("create_post", 7*time.Millisecond)
	mc.AddOperationLatency("join_course", time.Millisecond)

	assert.Equal(t, 2, mc.OperationCount("create_post"))
	assert.Equal(t, 1, mc.OperationCount("join_course"))
	assert.Equal(t, 0, mc.OperationCount("unknown_op"))

	assert.GreaterOrEqual(t, mc.Uptime(), time.Duration(0))
}
