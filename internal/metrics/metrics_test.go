package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/exonizer/internal/model/humanize"
)

func TestObserveHumanizeCountsByOutcome(t *testing.T) {
	m := New()

	m.ObserveHumanize(humanize.Success, 10*time.Millisecond)
	m.ObserveHumanize(humanize.Success, 20*time.Millisecond)
	m.ObserveHumanize(humanize.HTTPError, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("http_error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.InputRejected()
	m.SessionsActive(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "exonizer_rejected_inputs_total 1")
	assert.Contains(t, string(body), "exonizer_active_sessions 3")
}
