package render

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"
)

const (
	sampleRate = 44100
	// Fixed render block, aligned with the synth's internal effect buffers.
	block = 1024

	// tailSamples extends the render past the last note so releases and
	// reverb can ring out.
	tailSamples = sampleRate

	// fadeOutSamples is extra render time that mixPCM fades to silence.
	fadeOutSamples = 2 * sampleRate
)

// sequencer abstracts the subset of meltysynth.MidiFileSequencer used by
// Synthesize. Tests may override newSequencer to inject a mock.
type sequencer interface {
	Play(file *meltysynth.MidiFile, loop bool)
	Render(left, right []float32)
}

var (
	soundFontOnce sync.Once
	soundFontErr  error
	soundFont     *meltysynth.SoundFont
	synthSettings *meltysynth.SynthesizerSettings
)

var newSequencer = func(sf *meltysynth.SoundFont, settings *meltysynth.SynthesizerSettings) (sequencer, error) {
	// A fresh synthesizer per render keeps internal state off shared paths.
	syn, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, err
	}
	return meltysynth.NewMidiFileSequencer(syn), nil
}

// loadSoundFont parses the soundfont once per process and caches it. The
// parsed font is immutable and shared across renders.
func loadSoundFont(path string) error {
	soundFontOnce.Do(func() {
		if soundFont != nil {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			soundFontErr = fmt.Errorf("read soundfont: %w", err)
			return
		}
		sfnt, err := meltysynth.NewSoundFont(bytes.NewReader(data))
		if err != nil {
			soundFontErr = fmt.Errorf("parse soundfont: %w", err)
			return
		}
		settings := meltysynth.NewSynthesizerSettings(sampleRate)
		settings.BlockSize = block
		soundFont = sfnt
		synthSettings = settings
	})
	return soundFontErr
}

// Synthesize plays the MIDI file through the soundfont and writes the result
// as 16-bit stereo WAV. The context bounds the render loop.
func Synthesize(ctx context.Context, midiPath, soundFontPath, wavPath string) error {
	if err := loadSoundFont(soundFontPath); err != nil {
		return err
	}
	if soundFont == nil || synthSettings == nil {
		return errors.New("synth not initialized")
	}

	f, err := os.Open(midiPath)
	if err != nil {
		return fmt.Errorf("open midi: %w", err)
	}
	file, err := meltysynth.NewMidiFile(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse midi: %w", err)
	}

	seq, err := newSequencer(soundFont, synthSettings)
	if err != nil {
		return err
	}
	seq.Play(file, false)

	songSamples := int(int64(sampleRate) * int64(file.GetLength()) / int64(time.Second))
	totalSamples := songSamples + tailSamples + fadeOutSamples

	leftAll := make([]float32, 0, totalSamples)
	rightAll := make([]float32, 0, totalSamples)
	for pos := 0; pos < totalSamples; pos += block {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := block
		if pos+n > totalSamples {
			n = totalSamples - pos
		}
		// Always render a full block, then keep only what is needed.
		left := make([]float32, block)
		right := make([]float32, block)
		seq.Render(left, right)
		leftAll = append(leftAll, left[:n]...)
		rightAll = append(rightAll, right[:n]...)
	}

	return writeWAV(wavPath, mixPCM(leftAll, rightAll))
}

// mixPCM fades the tail, normalizes against clipping and interleaves the
// channels as 16-bit little-endian PCM.
func mixPCM(leftAll, rightAll []float32) []byte {
	if len(leftAll) == len(rightAll) && len(leftAll) > 0 {
		fadeSamples := 2 * sampleRate
		n := len(leftAll)
		if fadeSamples > n {
			fadeSamples = n
		}
		start := n - fadeSamples
		for i := start; i < n; i++ {
			g := 1.0 - float32(i-start)/float32(fadeSamples)
			leftAll[i] *= g
			rightAll[i] *= g
		}
	}

	var peak float32
	for i := range leftAll {
		if v := float32(math.Abs(float64(leftAll[i]))); v > peak {
			peak = v
		}
		if v := float32(math.Abs(float64(rightAll[i]))); v > peak {
			peak = v
		}
	}
	if peak > 0 {
		g := float32(0.99) / peak
		if g != 1 {
			for i := range leftAll {
				leftAll[i] *= g
				rightAll[i] *= g
			}
		}
	}

	pcm := make([]byte, len(leftAll)*4)
	for i := range leftAll {
		l := int16(leftAll[i] * 32767)
		r := int16(rightAll[i] * 32767)
		binary.LittleEndian.PutUint16(pcm[4*i:], uint16(l))
		binary.LittleEndian.PutUint16(pcm[4*i+2:], uint16(r))
	}
	return pcm
}

// writeWAV writes a 44-byte RIFF header followed by the PCM payload.
func writeWAV(path string, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	dataLen := uint32(len(pcm))
	var header [44]byte
	copy(header[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:], 36+dataLen)
	copy(header[8:], []byte("WAVE"))
	copy(header[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1)
	binary.LittleEndian.PutUint16(header[22:], 2)
	binary.LittleEndian.PutUint32(header[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(sampleRate*4))
	binary.LittleEndian.PutUint16(header[32:], 4)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:], dataLen)

	if _, err := f.Write(header[:]); err != nil {
		f.Close()
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := f.Write(pcm); err != nil {
		f.Close()
		return fmt.Errorf("write wav data: %w", err)
	}
	return f.Close()
}
