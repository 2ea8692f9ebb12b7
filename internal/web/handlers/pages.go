package handlers

import (
	"net/http"

	"github.com/cadenza-labs/cadenza-api/pkg/embedded"
	"github.com/gin-gonic/gin"
)

type WebHandler struct{}

func NewWebHandler() *WebHandler {
	return &WebHandler{}
}

// Home serves the embedded web player page
func (h *WebHandler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", embedded.IndexHTML)
}

// StyleSheet serves the player stylesheet
func (h *WebHandler) StyleSheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", embedded.StyleCSS)
}

// Script serves the player script
func (h *WebHandler) Script(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", embedded.ScriptJS)
}
