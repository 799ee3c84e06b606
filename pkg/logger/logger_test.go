package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Service: "reviews-service", Level: "debug", Output: &buf}))

	Info().Str("k", "v").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reviews-service", entry["service"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Service: "svc", Level: "warn", Output: &buf}))

	Info().Msg("skipped")
	assert.Empty(t, buf.String())

	Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("nope").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "debug", parseLevel("DEBUG").String())
}

func TestGinLoggerMiddleware_SetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Service: "svc", Output: &buf}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"route":"/ping"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}
