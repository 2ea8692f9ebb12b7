package compose

import (
	"fmt"

	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/theory"
)

// Composer generates compositions from resolved parameters. It is stateless;
// the lookup tables are package-level and read-only, so a single Composer is
// safe for concurrent use.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Generate dispatches on the generation mode and assembles the composition.
//
// markov: Markov melody, progression cycled one chord per bar.
// rule:   both lines from the rule tables.
// hybrid: rule harmony plus a fresh Markov melody. The melody is aligned to
// the harmony only by shared bar count, not note-by-note.
func (g *Composer) Generate(p Params) (*models.Composition, error) {
	if p.Genre == "" {
		return nil, ErrGenreRequired
	}
	scale := theory.ParseScale(p.Scale)
	ch := newChooser(p.Seed)

	var (
		melody  []models.NoteEvent
		harmony []models.ChordEvent
		err     error
	)
	switch p.Mode {
	case ModeMarkov:
		melody = generateMelody(scale, p, ch)
		harmony, err = cycledHarmony(scale, p, ch)
	case ModeRule:
		melody, harmony, err = generateComposition(scale, p, ch)
	default:
		harmony, err = generateHarmony(scale, p, ch)
		if err == nil {
			melody = generateMelody(scale, p, ch)
		}
	}
	if err != nil {
		return nil, err
	}

	return &models.Composition{
		Melody:  melody,
		Harmony: harmony,
		BPM:     p.Tempo.BPM(),
		Bars:    p.Length.Bars(),
		Genre:   string(p.Genre),
		Scale:   scale.Root + " " + scale.Type,
		Mood:    string(p.Mood),
		Mode:    string(p.Mode),
	}, nil
}

// cycledHarmony resolves a chosen progression directly onto the bar grid,
// one chord per bar with no rhythm shaping.
func cycledHarmony(scale theory.Scale, p Params, ch *chooser) ([]models.ChordEvent, error) {
	progression := pickProgression(p.Genre, ch)

	bars := p.Length.Bars()
	events := make([]models.ChordEvent, 0, bars)
	for bar := 0; bar < bars; bar++ {
		chord, err := theory.ResolveSymbol(progression[bar%len(progression)], scale)
		if err != nil {
			return nil, fmt.Errorf("resolve chord %s: %w", progression[bar%len(progression)], err)
		}
		events = append(events, models.ChordEvent{
			ChordSymbol:   chord.Name,
			MidiNotes:     chord.Midi(harmonyOctave),
			StartBeats:    float64(bar) * beatsPerBar,
			DurationBeats: beatsPerBar,
		})
	}
	return events, nil
}
