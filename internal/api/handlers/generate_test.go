package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/render"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer satisfies TrackRenderer without touching the audio toolchain.
type fakeRenderer struct {
	calls int
	fail  bool
}

func (f *fakeRenderer) Render(_ context.Context, _ *models.Composition, _ []string) (*render.Result, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("synthesis failed")
	}
	return &render.Result{
		TrackID:      "test-track",
		FileName:     "track_test-track.mp3",
		Path:         "output/track_test-track.mp3",
		Format:       "mp3",
		MidiFileName: "track_test-track.mid",
		SizeBytes:    12345,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		OutputDir:   "output",
	}
}

// setupTestRouter creates a minimal test router with just the endpoints we need
func setupTestRouter(renderer TrackRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	cfg := testConfig()

	router.GET("/health", HealthCheck(cfg))

	generateHandler := NewGenerateHandler(cfg, nil, renderer)
	router.POST("/api/v1/generate", generateHandler.Generate)

	tracksHandler := NewTracksHandler(nil)
	router.GET("/api/v1/tracks", tracksHandler.List)

	metricsHandler := NewMetricsHandler("test", false)
	router.GET("/api/v1/metrics", metricsHandler.GetMetrics)

	return router
}

func postGenerate(t *testing.T, router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("POST", "/api/v1/generate", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateRejectsMissingGenre(t *testing.T) {
	renderer := &fakeRenderer{}
	router := setupTestRouter(renderer)

	body, err := json.Marshal(models.GenerationRequest{Scale: "C Major"})
	require.NoError(t, err)

	w := postGenerate(t, router, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, renderer.calls, "renderer must not run for invalid requests")

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Contains(t, response["error"], "genre")
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	renderer := &fakeRenderer{}
	router := setupTestRouter(renderer)

	w := postGenerate(t, router, []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, renderer.calls)
}

func TestGenerateReturnsTrack(t *testing.T) {
	renderer := &fakeRenderer{}
	router := setupTestRouter(renderer)

	body, err := json.Marshal(models.GenerationRequest{Genre: "Pop", Length: "Short"})
	require.NoError(t, err)

	w := postGenerate(t, router, body)

	require.Equal(t, http.StatusOK, w.Code, "Expected 200 OK, got %d: %s", w.Code, w.Body.String())
	assert.Equal(t, 1, renderer.calls)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, true, response["success"])
	assert.Equal(t, "test-track", response["track_id"])
	assert.Equal(t, "/output/track_test-track.mp3", response["mp3_path"])
	assert.Equal(t, "/output/track_test-track.mid", response["midi_path"])
	assert.Equal(t, "mp3", response["format"])
	assert.EqualValues(t, 16, response["bars"])
	assert.EqualValues(t, 100, response["bpm"])
	assert.Equal(t, "Pop", response["genre"])
	assert.Equal(t, "C Major", response["scale"])
	assert.Equal(t, "hybrid", response["mode"])
	assert.NotContains(t, response, "warning")
}

func TestGenerateWarnsWhenVocalsRequested(t *testing.T) {
	renderer := &fakeRenderer{}
	router := setupTestRouter(renderer)

	body, err := json.Marshal(models.GenerationRequest{
		Genre:  "Jazz",
		Vocals: &models.VocalsRequest{Enabled: true, Type: "Female"},
	})
	require.NoError(t, err)

	w := postGenerate(t, router, body)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, true, response["success"])
	warning, ok := response["warning"].(string)
	require.True(t, ok, "Response should carry a vocals warning")
	assert.Contains(t, warning, "vocal synthesis is not supported")
}

func TestGenerateReportsRenderFailure(t *testing.T) {
	renderer := &fakeRenderer{fail: true}
	router := setupTestRouter(renderer)

	body, err := json.Marshal(models.GenerationRequest{Genre: "Rock"})
	require.NoError(t, err)

	w := postGenerate(t, router, body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, renderer.calls)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "Failed to render track", response["error"])
}

func TestTracksUnavailableWithoutDatabase(t *testing.T) {
	router := setupTestRouter(&fakeRenderer{})

	req, err := http.NewRequest("GET", "/api/v1/tracks", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "track history requires a database", response["error"])
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(&fakeRenderer{})

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "healthy", response["status"])

	soundfont, ok := response["soundfont"].(map[string]interface{})
	require.True(t, ok, "Response should have a soundfont block")
	assert.Equal(t, "missing", soundfont["status"])

	database, ok := response["database"].(map[string]interface{})
	require.True(t, ok, "Response should have a database block")
	assert.Equal(t, "disabled", database["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(&fakeRenderer{})

	req, err := http.NewRequest("GET", "/api/v1/metrics", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response MetricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test", response.Version)
	assert.NotEmpty(t, response.Uptime)
	assert.NotEmpty(t, response.System.GoVersion)

	database, ok := response.API["database"].(map[string]interface{})
	require.True(t, ok, "Metrics should report database state")
	assert.Equal(t, false, database["enabled"])
}
