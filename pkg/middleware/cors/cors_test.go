package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, mw gin.HandlerFunc, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(mw)
	r.Any("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, err := http.NewRequest(method, "/ping", nil)
	require.NoError(t, err)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAllowsConfiguredOrigin(t *testing.T) {
	mw := New([]string{"https://portal.icct.edu.ph/"})

	w := perform(t, mw, http.MethodGet, "https://portal.icct.edu.ph")
	assert.Equal(t, "https://portal.icct.edu.ph", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
}

func TestIgnoresUnknownOrigin(t *testing.T) {
	mw := New([]string{"https://portal.icct.edu.ph"})

	w := perform(t, mw, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	mw := New(nil)

	w := perform(t, mw, http.MethodOptions, "https://portal.icct.edu.ph")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.icct.edu.ph", w.Header().Get("Access-Control-Allow-Origin"))
}
