package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("test")

	m.LoginAttempt(LoginSuccess)
	m.LoginAttempt(LoginFailure)
	m.LoginAttempt(LoginFailure)
	m.TokenRejected("expired")
	m.AuthzDecision("admin", "forbidden")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(LoginFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokenRejections.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authzDecisions.WithLabelValues("admin", "forbidden")))
}

func TestMetrics_Requests(t *testing.T) {
	m := New("test")

	m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqInflight))

	m.RequestFinished(http.MethodGet, "/api/v1/users/{id}", http.StatusForbidden, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.reqInflight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqErrors.WithLabelValues(http.MethodGet, "/api/v1/users/{id}", "403")))

	m.RequestStarted()
	m.RequestFinished(http.MethodGet, "/api/v1/health", http.StatusOK, time.Millisecond)
	assert.Equal(t, 2, testutil.CollectAndCount(m.reqDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RequestStarted()
		m.RequestFinished(http.MethodGet, "/", http.StatusOK, time.Second)
		m.LoginAttempt(LoginSuccess)
		m.TokenRejected("malformed")
		m.AuthzDecision("public", "allow")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("garudar")
	m.LoginAttempt(LoginSuccess)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `garudar_login_attempts_total{outcome="success"} 1`)
}
