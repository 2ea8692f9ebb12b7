package render

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFFmpegNotFound means no usable ffmpeg binary exists on this host. The
// caller keeps the WAV as the final artifact in that case.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// Transcode converts a WAV file to MP3 with libmp3lame at VBR quality 2.
func Transcode(ctx context.Context, ffmpegPath, wavPath, mp3Path string) error {
	bin := ffmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}

	cmd := exec.CommandContext(ctx, resolved,
		"-i", wavPath,
		"-codec:a", "libmp3lame",
		"-qscale:a", "2",
		"-y", mp3Path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if len(msg) > 400 {
			msg = msg[len(msg)-400:]
		}
		return fmt.Errorf("ffmpeg: %v: %s", err, msg)
	}
	return nil
}
