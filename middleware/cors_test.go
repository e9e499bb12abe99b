package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TourHive/booking-flow-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.ServerConfig{AllowedOrigins: origins}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func corsRequest(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSWildcardAllowsAll(t *testing.T) {
	r := corsRouter([]string{"*"})
	w := corsRequest(r, "https://anything.example.net")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSExactOrigin(t *testing.T) {
	r := corsRouter([]string{"https://app.tourhive.io"})

	w := corsRequest(r, "https://app.tourhive.io")
	assert.Equal(t, "https://app.tourhive.io", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(r, "https://evil.example.net")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardSubdomain(t *testing.T) {
	r := corsRouter([]string{"*.tourhive.io"})

	w := corsRequest(r, "https://staging.tourhive.io")
	assert.Equal(t, "https://staging.tourhive.io", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(r, "https://tourhive.example.net")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
