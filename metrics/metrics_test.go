package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHTTPMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(HTTPMiddleware())
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "boom")
	})

	okBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ok", "200"))
	errBefore := testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/boom", "502"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ok", "200")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(httpErrorsTotal.WithLabelValues(http.MethodGet, "/boom", "502")))
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()

	before := testutil.ToFloat64(bridgeRequestsTotal.WithLabelValues("200"))
	recorder.RecordBridgeRequest("200", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(bridgeRequestsTotal.WithLabelValues("200")))

	before = testutil.ToFloat64(paymentAttemptsTotal.WithLabelValues("satoshis", "false"))
	recorder.RecordPaymentAttempt("satoshis", false)
	assert.Equal(t, before+1, testutil.ToFloat64(paymentAttemptsTotal.WithLabelValues("satoshis", "false")))

	before = testutil.ToFloat64(attemptsTotal.WithLabelValues("ota"))
	recorder.RecordAttempt("ota")
	assert.Equal(t, before+1, testutil.ToFloat64(attemptsTotal.WithLabelValues("ota")))
}

func TestRegisterMetricsTwice(t *testing.T) {
	RegisterMetrics([]string{ServiceHTTP, ServiceBridge, "unknown"}, testLogger())
	RegisterMetrics([]string{ServiceHTTP, ServiceBridge}, testLogger())
}

func TestStartMetricsServerDisabled(t *testing.T) {
	assert.Nil(t, StartMetricsServer(Config{Enabled: false}, nil, testLogger()))
}

func TestStartMetricsServer(t *testing.T) {
	server := StartMetricsServer(Config{Enabled: true, Host: "127.0.0.1", Port: "0"}, []string{ServiceBridge}, testLogger())
	require.NotNil(t, server)
	require.NoError(t, server.Stop(context.Background()))
}
