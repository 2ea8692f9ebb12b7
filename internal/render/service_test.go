package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cadenza-labs/cadenza-api/internal/config"
)

func testRenderer(dir string) *Renderer {
	return NewRenderer(&config.Config{
		OutputDir:            dir,
		SoundFontPath:        "unused.sf2",
		FFmpegPath:           "no-such-ffmpeg-binary-on-this-host",
		RenderTimeoutSeconds: 60,
	})
}

func TestRenderFallsBackToWAV(t *testing.T) {
	injectSynth(t)

	dir := t.TempDir()
	res, err := testRenderer(dir).Render(context.Background(), testComposition(), []string{"Piano"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if res.Format != "wav" {
		t.Errorf("Format = %q, want wav when ffmpeg is missing", res.Format)
	}
	if res.TrackID == "" {
		t.Error("Result carries no track ID")
	}
	if res.FileName != "track_"+res.TrackID+".wav" {
		t.Errorf("FileName = %q, want track_%s.wav", res.FileName, res.TrackID)
	}

	info, err := os.Stat(res.Path)
	if err != nil {
		t.Fatalf("Published artifact missing: %v", err)
	}
	if info.Size() <= 44 {
		t.Errorf("Artifact is header-only: %d bytes", info.Size())
	}
	if res.SizeBytes != info.Size() {
		t.Errorf("SizeBytes = %d, stat says %d", res.SizeBytes, info.Size())
	}
	if _, err := os.Stat(filepath.Join(dir, res.MidiFileName)); err != nil {
		t.Errorf("MIDI file missing: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Temp file %s left behind", e.Name())
		}
	}
}

func TestRenderHonorsContext(t *testing.T) {
	injectSynth(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRenderer(t.TempDir()).Render(ctx, testComposition(), []string{"Piano"})
	if err == nil {
		t.Fatal("Expected an error from a canceled context")
	}
}
