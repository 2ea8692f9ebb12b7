package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", RateLimit(rps, burst), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func hitGenerate(t *testing.T, router *gin.Engine, remoteAddr string) int {
	t.Helper()

	req, err := http.NewRequest("POST", "/generate", nil)
	require.NoError(t, err)
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	router := setupLimitedRouter(1, 2)

	assert.Equal(t, http.StatusOK, hitGenerate(t, router, "10.1.2.3:4567"))
	assert.Equal(t, http.StatusOK, hitGenerate(t, router, "10.1.2.3:4567"))
	assert.Equal(t, http.StatusTooManyRequests, hitGenerate(t, router, "10.1.2.3:4567"))
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	router := setupLimitedRouter(1, 1)

	assert.Equal(t, http.StatusOK, hitGenerate(t, router, "10.1.2.3:4567"))
	assert.Equal(t, http.StatusTooManyRequests, hitGenerate(t, router, "10.1.2.3:4567"))

	// A different client gets its own bucket
	assert.Equal(t, http.StatusOK, hitGenerate(t, router, "10.9.9.9:4567"))
}
