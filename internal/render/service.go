// Package render turns compositions into playable artifacts: a standard MIDI
// file, a soundfont-synthesized WAV and, when ffmpeg is available, an MP3.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/cadenza-labs/cadenza-api/internal/logger"
	"github.com/cadenza-labs/cadenza-api/internal/models"
)

// Result describes the artifacts one render produced.
type Result struct {
	TrackID      string
	FileName     string // served artifact, track_<id>.mp3 or .wav
	Path         string
	Format       string // "mp3" or "wav"
	MidiFileName string
	SizeBytes    int64
}

// Renderer drives the MIDI, WAV, MP3 chain for one output directory.
type Renderer struct {
	outputDir     string
	soundFontPath string
	ffmpegPath    string
	timeout       time.Duration
}

func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		outputDir:     cfg.OutputDir,
		soundFontPath: cfg.SoundFontPath,
		ffmpegPath:    cfg.FFmpegPath,
		timeout:       time.Duration(cfg.RenderTimeoutSeconds) * time.Second,
	}
}

// Render writes the MIDI file, synthesizes it and transcodes the result to
// MP3. Audio is written under temporary names and renamed only once complete,
// so the output directory never serves a partial file. A missing ffmpeg
// downgrades the final artifact to WAV instead of failing.
func (r *Renderer) Render(ctx context.Context, comp *models.Composition, instruments []string) (*Result, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	trackID := uuid.New().String()
	base := "track_" + trackID

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	midiPath := filepath.Join(r.outputDir, base+".mid")
	if err := WriteSMF(comp, instruments, midiPath); err != nil {
		return nil, fmt.Errorf("write midi: %w", err)
	}

	wavTmp := filepath.Join(r.outputDir, base+".wav.tmp")
	if err := Synthesize(ctx, midiPath, r.soundFontPath, wavTmp); err != nil {
		os.Remove(wavTmp)
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	mp3Tmp := filepath.Join(r.outputDir, base+".mp3.tmp")
	err := Transcode(ctx, r.ffmpegPath, wavTmp, mp3Tmp)
	switch {
	case err == nil:
		mp3Path := filepath.Join(r.outputDir, base+".mp3")
		if err := os.Rename(mp3Tmp, mp3Path); err != nil {
			return nil, fmt.Errorf("publish mp3: %w", err)
		}
		os.Remove(wavTmp)
		return r.result(trackID, base, mp3Path, "mp3"), nil
	case errors.Is(err, ErrFFmpegNotFound):
		logger.Warn("ffmpeg not available, serving WAV", logger.Fields{"track_id": trackID})
		wavPath := filepath.Join(r.outputDir, base+".wav")
		if err := os.Rename(wavTmp, wavPath); err != nil {
			return nil, fmt.Errorf("publish wav: %w", err)
		}
		return r.result(trackID, base, wavPath, "wav"), nil
	default:
		os.Remove(mp3Tmp)
		os.Remove(wavTmp)
		return nil, fmt.Errorf("transcode: %w", err)
	}
}

func (r *Renderer) result(trackID, base, path, format string) *Result {
	res := &Result{
		TrackID:      trackID,
		FileName:     base + "." + format,
		Path:         path,
		Format:       format,
		MidiFileName: base + ".mid",
	}
	if info, err := os.Stat(path); err == nil {
		res.SizeBytes = info.Size()
	}
	return res
}
