package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareKeepsClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, "client-id", Value(c))
		c.Status(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	req.Header.Set(Header, "client-id")
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-id", w.Header().Get(Header))
}

func TestMiddlewareMintsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, err := http.NewRequest(http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get(Header))
}
