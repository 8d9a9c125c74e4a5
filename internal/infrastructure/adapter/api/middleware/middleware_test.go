package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	corelogger "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
	timeAdapter "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/time"
)

type recordedRequest struct {
	route  string
	method string
	code   int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(route, method string, code int, _ float64) {
	f.requests = append(f.requests, recordedRequest{route: route, method: method, code: code})
}

func newRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs, *fakeObserver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	zapCore, logs := observer.New(zapcore.DebugLevel)
	log := corelogger.NewZapLoggerFromCore(zapCore, core.LogLevelDebug)
	clock := timeAdapter.NewManualTimeProvider(time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC))
	obs := &fakeObserver{}

	router := gin.New()
	router.Use(RequestID(), Logger(log, clock), Metrics(obs, clock), ErrorHandler(log))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/ctx", func(c *gin.Context) {
		c.String(http.StatusOK, corelogger.RequestIDFromContext(c.Request.Context()))
	})
	return router, logs, obs
}

func TestRequestID_PropagatesToContext(t *testing.T) {
	router, logs, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Body.String())
	entries := logs.FilterMessage("Request processed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	router, logs, obs := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered in API request").Len())
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
	require.Len(t, obs.requests, 1)
	assert.Equal(t, recordedRequest{route: "/panic", method: http.MethodGet, code: http.StatusInternalServerError}, obs.requests[0])
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	router, _, obs := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, obs.requests, 1)
	assert.Equal(t, "unmatched", obs.requests[0].route)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
