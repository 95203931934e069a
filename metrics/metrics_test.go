package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePairing(t *testing.T) {
	m := New()
	m.ObservePairing(OutcomeOK, 8, 5*time.Millisecond)
	m.ObservePairing(OutcomeRoundNotComplete, 8, time.Millisecond)
	m.ObservePairing(OutcomeOK, 4, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PairingsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PairingsTotal.WithLabelValues(OutcomeRoundNotComplete)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.MatchesReported.WithLabelValues("bye").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `swiss_matches_reported_total{kind="bye"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
