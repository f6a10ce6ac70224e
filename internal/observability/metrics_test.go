package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/ghost-names", "GET", 200, time.Millisecond)
	m.RecordRequest("/ghost-names", "GET", 200, time.Millisecond)
	m.RecordError("/ghost-names/select", "POST", "CONFLICT")

	assert.Equal(t, int64(2), m.Requests("/ghost-names", "GET", 200))
	assert.Equal(t, int64(1), m.Errors("/ghost-names/select", "POST", "CONFLICT"))
	assert.Zero(t, m.Requests("/ghost-names", "POST", 200))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	assert.Zero(t, m.Requests("/", "GET", 200))
}
