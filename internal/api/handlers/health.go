package handlers

import (
	"net/http"
	"os"
	"os/exec"

	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness plus the state of the render toolchain.
// A missing ffmpeg is not fatal (tracks fall back to WAV), so the
// endpoint stays healthy either way.
func HealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		soundfontStatus := "missing"
		if _, err := os.Stat(cfg.SoundFontPath); err == nil {
			soundfontStatus = "ok"
		}

		ffmpegBin := cfg.FFmpegPath
		if ffmpegBin == "" {
			ffmpegBin = "ffmpeg"
		}
		ffmpegStatus := "missing"
		if _, err := exec.LookPath(ffmpegBin); err == nil {
			ffmpegStatus = "ok"
		}

		databaseStatus := "disabled"
		if cfg.DatabaseURL != "" {
			databaseStatus = "configured"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"soundfont": gin.H{
				"status": soundfontStatus,
				"path":   cfg.SoundFontPath,
			},
			"ffmpeg": gin.H{
				"status": ffmpegStatus,
			},
			"database": gin.H{
				"status": databaseStatus,
			},
		})
	}
}
