package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platdiag/internal/history"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe([]history.Result{
		{Name: "mpixels_sec_fill_solid", Value: 900, Unit: "Mpixel/s"},
		{Name: "us_swap_swap", Value: 12, Unit: "us"},
	}, 2*time.Second)

	assert.Equal(t, 900.0, testutil.ToFloat64(m.ResultValue.WithLabelValues("mpixels_sec_fill_solid", "Mpixel/s")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ResultValue.WithLabelValues("us_swap_swap", "us")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LastRunDuration))

	m.ObserveError()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunErrorsTotal))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Observe([]history.Result{{Name: "t1", Value: 3, Unit: "ops"}}, time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	body := make([]byte, 1<<16)
	n, _ := resp.Body.Read(body)
	assert.Contains(t, string(body[:n]), "platdiag_result")
}
