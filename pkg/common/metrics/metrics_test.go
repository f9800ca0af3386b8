package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMustRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister("labs-test")
		MustRegister("labs-test")
	})
}

func TestCounters(t *testing.T) {
	IncHandledError(2001001001)
	IncHandledError(2001001001)
	assert.Equal(t, float64(2), testutil.ToFloat64(HandledErrorsTotal.WithLabelValues(service, "2001001001")))

	before := testutil.ToFloat64(SessionsCleanedTotal.WithLabelValues(service))
	AddSessionsCleaned(0)
	AddSessionsCleaned(3)
	assert.Equal(t, before+3, testutil.ToFloat64(SessionsCleanedTotal.WithLabelValues(service)))

	ObserveRequest("GET", "/users", 200, 0.01)
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(service, "GET", "/users", "200")))
}
