package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cadenza-labs/cadenza-api/internal/compose"
	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/cadenza-labs/cadenza-api/internal/logger"
	"github.com/cadenza-labs/cadenza-api/internal/metrics"
	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/render"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrackRenderer turns a composition into an audio file on disk.
type TrackRenderer interface {
	Render(ctx context.Context, comp *models.Composition, instruments []string) (*render.Result, error)
}

type GenerateHandler struct {
	cfg      *config.Config
	db       *gorm.DB
	composer *compose.Composer
	renderer TrackRenderer
	metrics  *metrics.SentryMetrics
	cw       *metrics.Client
}

func NewGenerateHandler(cfg *config.Config, db *gorm.DB, renderer TrackRenderer) *GenerateHandler {
	cw, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		logger.Warn("CloudWatch metrics unavailable", logger.Fields{"error": err.Error()})
	}

	return &GenerateHandler{
		cfg:      cfg,
		db:       db,
		composer: compose.NewComposer(),
		renderer: renderer,
		metrics:  metrics.NewSentryMetrics(),
		cw:       cw,
	}
}

// Generate composes a track from the request parameters and renders it
// to an audio file under the output directory.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	params, err := compose.ParamsFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Vocals are accepted for API compatibility but never synthesized
	var warning string
	if req.Vocals != nil && req.Vocals.Enabled {
		warning = "vocal synthesis is not supported; generating an instrumental track"
		logger.Warn("Vocals requested but not supported", logger.Fields{
			"request_id": c.GetString("request_id"),
			"vocal_type": req.Vocals.Type,
		})
	}

	startTime := time.Now()

	comp, err := h.composer.Generate(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.renderer.Render(c.Request.Context(), comp, params.Instruments)
	duration := time.Since(startTime)
	if err != nil {
		h.metrics.RecordGenerationDuration(c.Request.Context(), duration, false)
		h.cw.RecordGenerationDuration(duration, false)
		logger.Error("Render failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"genre":      comp.Genre,
			"mode":       comp.Mode,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to render track"})
		return
	}

	logger.LogGenerationRequest(c.Request.Context(), comp.Mode, duration, logger.Fields{
		"request_id": c.GetString("request_id"),
		"genre":      comp.Genre,
		"bars":       comp.Bars,
		"format":     result.Format,
		"size_bytes": result.SizeBytes,
	})

	h.metrics.RecordGenerationDuration(c.Request.Context(), duration, true)
	h.metrics.RecordCompositionMetrics(c.Request.Context(), comp.Genre, comp.Mode,
		comp.Bars, len(comp.Melody), len(comp.Harmony))
	h.cw.RecordGenerationDuration(duration, true)
	h.cw.RecordComposition(comp.Genre, comp.Mode, comp.Bars, len(comp.Melody))
	h.cw.RecordTrackRendered(result.Format, result.SizeBytes, duration)
	tracksRendered.Add(1)

	if result.Format == "wav" {
		h.metrics.RecordCustomMetric("render.wav_fallback", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"track_id":   result.TrackID,
		})
	}

	h.saveTrack(c, comp, params, result, duration)

	response := gin.H{
		"success":    true,
		"request_id": c.GetString("request_id"),
		"track_id":   result.TrackID,
		"mp3_path":   "/output/" + result.FileName,
		"midi_path":  "/output/" + result.MidiFileName,
		"format":     result.Format,
		"bars":       comp.Bars,
		"bpm":        comp.BPM,
		"genre":      comp.Genre,
		"scale":      comp.Scale,
		"mood":       comp.Mood,
		"mode":       comp.Mode,
	}
	if warning != "" {
		response["warning"] = warning
	}

	c.JSON(http.StatusOK, response)
}

// saveTrack persists track metadata when a database is configured.
// History is best-effort; the rendered file is already on disk.
func (h *GenerateHandler) saveTrack(c *gin.Context, comp *models.Composition, params compose.Params, result *render.Result, duration time.Duration) {
	if h.db == nil {
		return
	}

	track := models.Track{
		TrackID:    result.TrackID,
		FileName:   result.FileName,
		Format:     result.Format,
		Genre:      comp.Genre,
		Scale:      comp.Scale,
		Mood:       comp.Mood,
		Tempo:      string(params.Tempo),
		Complexity: string(params.Complexity),
		Mode:       comp.Mode,
		Bars:       comp.Bars,
		BPM:        comp.BPM,
		Seed:       params.Seed,
		SizeBytes:  result.SizeBytes,
		RenderMS:   int(duration.Milliseconds()),
		RequestID:  c.GetString("request_id"),
	}

	if err := h.db.Create(&track).Error; err != nil {
		logger.Error("Failed to save track history", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"track_id":   result.TrackID,
		})
	}
}
