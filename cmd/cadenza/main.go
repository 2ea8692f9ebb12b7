package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/remeh/sizedwaitgroup"
	"gitlab.com/gomidi/midi/writer"
	driver "gitlab.com/gomidi/rtmididrv"

	"github.com/cadenza-labs/cadenza-api/internal/compose"
	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/render"
)

func main() {
	genre := flag.String("genre", "", "genre: Pop, Rock, Jazz, Classical or Blues (required)")
	instruments := flag.String("instruments", "Piano", "comma-separated instrument list")
	scale := flag.String("scale", "C Major", "scale, e.g. \"A Minor\"")
	mood := flag.String("mood", "Neutral", "mood: Happy, Sad, Energetic, Calm or Neutral")
	tempo := flag.String("tempo", "Medium", "tempo: Slow, Medium or Fast")
	length := flag.String("length", "Medium", "length: Short, Medium or Long")
	complexity := flag.String("complexity", "Simple", "complexity: Simple, Intermediate or Complex")
	mode := flag.String("mode", "hybrid", "generation mode: markov, rule or hybrid")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one per track")
	n := flag.Int("n", 1, "number of tracks to generate")
	parallel := flag.Int("parallel", 2, "concurrent renders when -n > 1")
	out := flag.String("out", "output", "output directory")
	soundfont := flag.String("soundfont", "soundfont.sf2", "path to a GM soundfont")
	ffmpegPath := flag.String("ffmpeg", "", "ffmpeg binary, defaults to $PATH lookup")
	midiOnly := flag.Bool("midi-only", false, "write only the .mid file, skip synthesis")
	preview := flag.Bool("preview", false, "play on a live MIDI output port instead of rendering")
	port := flag.Int("port", 0, "MIDI output port index for -preview")
	listPorts := flag.Bool("list-ports", false, "list MIDI output ports and exit")
	flag.Parse()

	if *listPorts {
		if err := printPorts(); err != nil {
			log.Fatalf("list ports: %v", err)
		}
		return
	}

	req := models.GenerationRequest{
		Genre:       *genre,
		Instruments: splitList(*instruments),
		Scale:       *scale,
		Mood:        *mood,
		Tempo:       *tempo,
		Length:      *length,
		Complexity:  *complexity,
		Mode:        *mode,
	}
	params, err := compose.ParamsFromRequest(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cadenza: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	composer := compose.NewComposer()

	if *preview {
		params.Seed = trackSeed(*seed, 0)
		comp, err := composer.Generate(params)
		if err != nil {
			log.Fatalf("generate: %v", err)
		}
		if err := playPreview(comp, params.Instruments, *port); err != nil {
			log.Fatalf("preview: %v", err)
		}
		return
	}

	renderer := render.NewRenderer(&config.Config{
		OutputDir:            *out,
		SoundFontPath:        *soundfont,
		FFmpegPath:           *ffmpegPath,
		RenderTimeoutSeconds: 300,
	})

	if *n < 1 {
		*n = 1
	}
	var failures atomic.Int64
	swg := sizedwaitgroup.New(*parallel)
	for i := 0; i < *n; i++ {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			p := params
			p.Seed = trackSeed(*seed, i)
			if err := generateOne(composer, renderer, p, *out, *midiOnly); err != nil {
				log.Printf("track %d: %v", i+1, err)
				failures.Add(1)
			}
		}(i)
	}
	swg.Wait()

	if c := failures.Load(); c > 0 {
		log.Fatalf("%d of %d tracks failed", c, *n)
	}
}

func generateOne(composer *compose.Composer, renderer *render.Renderer, p compose.Params, outDir string, midiOnly bool) error {
	start := time.Now()
	comp, err := composer.Generate(p)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if midiOnly {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		name := "track_" + uuid.New().String() + ".mid"
		path := filepath.Join(outDir, name)
		if err := render.WriteSMF(comp, p.Instruments, path); err != nil {
			return fmt.Errorf("write midi: %w", err)
		}
		report(name, path, comp, start)
		return nil
	}

	result, err := renderer.Render(context.Background(), comp, p.Instruments)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	report(result.FileName, result.Path, comp, start)
	return nil
}

func report(name, path string, comp *models.Composition, start time.Time) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	log.Printf("%s  %s  %s %s, %d bars @ %d BPM  (%s)",
		name, humanize.Bytes(uint64(size)),
		comp.Genre, comp.Mode, comp.Bars, comp.BPM,
		time.Since(start).Round(time.Millisecond))
}

// trackSeed derives one seed per track so a seeded batch is reproducible
// without producing n identical tracks. Zero means unseeded.
func trackSeed(base int64, i int) *int64 {
	if base == 0 {
		return nil
	}
	s := base + int64(i)
	return &s
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func printPorts() error {
	drv, err := driver.New()
	if err != nil {
		return err
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return err
	}
	if len(outs) == 0 {
		fmt.Println("no MIDI output ports")
		return nil
	}
	for _, out := range outs {
		fmt.Printf("[%v] %s\n", out.Number(), out)
	}
	return nil
}

// playPreview replays the composition on a live output port with the same
// articulation the SMF export gets.
func playPreview(comp *models.Composition, instruments []string, portIndex int) error {
	drv, err := driver.New()
	if err != nil {
		return err
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return err
	}
	if len(outs) == 0 {
		return fmt.Errorf("no MIDI output ports available")
	}
	if portIndex < 0 || portIndex >= len(outs) {
		return fmt.Errorf("MIDI output port index %d out of range [0, %d]", portIndex, len(outs)-1)
	}
	out := outs[portIndex]
	if err := out.Open(); err != nil {
		return err
	}
	defer out.Close()

	wr := writer.New(out)
	plan := render.BuildPreview(comp, instruments)
	for ch, prog := range plan.Programs {
		wr.SetChannel(ch)
		if err := writer.ProgramChange(wr, prog); err != nil {
			return err
		}
	}

	log.Printf("playing %d bars @ %d BPM on [%v] %s", comp.Bars, comp.BPM, out.Number(), out)
	beat := time.Duration(float64(time.Minute) / float64(comp.BPM))
	start := time.Now()
	for _, ev := range plan.Events {
		at := time.Duration(ev.AtBeats * float64(beat))
		time.Sleep(time.Until(start.Add(at)))
		wr.SetChannel(ev.Channel)
		if ev.Off {
			err = writer.NoteOff(wr, ev.Key)
		} else {
			err = writer.NoteOn(wr, ev.Key, ev.Velocity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
