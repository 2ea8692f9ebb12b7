package compose

import (
	"fmt"

	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/theory"
)

const harmonyOctave = 4

// chordProgressions lists the candidate Roman-numeral progressions per genre.
var chordProgressions = map[Genre][][]string{
	GenrePop: {
		{"I", "V", "vi", "IV"}, // the four-chord pop staple
		{"I", "IV", "V"},
		{"vi", "IV", "I", "V"},
	},
	GenreRock: {
		{"I", "IV", "V"},
		{"I", "V", "IV"},
		{"I", "bVII", "IV"},  // mixolydian color
		{"i", "bVI", "bVII"}, // minor rock
	},
	GenreJazz: {
		{"ii", "V", "I"},
		{"I", "vi", "ii", "V"}, // turnaround
		{"iii", "VI", "ii", "V"},
	},
	GenreClassical: {
		{"I", "IV", "V", "I"}, // authentic cadence
		{"I", "ii", "V", "I"},
		{"vi", "ii", "V", "I"},
	},
	GenreBlues: {
		{"I", "IV", "I", "V", "IV", "I"}, // simplified 12-bar form
	},
}

// rhythmPatterns holds the medium-tempo note durations per complexity, as
// fractions of a bar. Every pattern fills exactly one bar.
var rhythmPatterns = map[Complexity][][]float64{
	ComplexitySimple: {
		{0.25, 0.25, 0.25, 0.25}, // four quarters
		{0.5, 0.25, 0.25},
		{0.25, 0.25, 0.5},
	},
	ComplexityIntermediate: {
		{0.125, 0.125, 0.25, 0.125, 0.125, 0.25},
		{0.25, 0.125, 0.125, 0.25, 0.25},
		{0.125, 0.125, 0.125, 0.125, 0.25, 0.25},
	},
	ComplexityComplex: {
		{0.0625, 0.0625, 0.0625, 0.0625, 0.125, 0.125, 0.25, 0.25},
		{0.125, 0.0625, 0.0625, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125},
		{0.0625, 0.0625, 0.125, 0.0625, 0.0625, 0.125, 0.25, 0.25},
	},
}

// tempoRhythmPatterns overrides rhythmPatterns at the slow and fast tempos.
// Medium has no entry and falls through to rhythmPatterns.
var tempoRhythmPatterns = map[Tempo]map[Complexity][][]float64{
	TempoSlow: {
		ComplexitySimple: {
			{0.5, 0.5}, // two halves
			{0.75, 0.25},
			{0.5, 0.25, 0.25},
		},
		ComplexityIntermediate: {
			{0.375, 0.125, 0.25, 0.25},
			{0.25, 0.375, 0.125, 0.25},
			{0.25, 0.25, 0.375, 0.125},
		},
		ComplexityComplex: {
			{0.25, 0.125, 0.125, 0.25, 0.125, 0.125},
			{0.375, 0.125, 0.125, 0.125, 0.25},
			{0.25, 0.25, 0.125, 0.125, 0.125, 0.125},
		},
	},
	TempoFast: {
		ComplexitySimple: {
			{0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125}, // straight eighths
			{0.125, 0.125, 0.25, 0.125, 0.125, 0.25},
			{0.25, 0.125, 0.125, 0.25, 0.25},
		},
		ComplexityIntermediate: {
			{0.0625, 0.0625, 0.125, 0.125, 0.0625, 0.0625, 0.125, 0.125, 0.25},
			{0.125, 0.0625, 0.0625, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125},
			{0.0625, 0.0625, 0.0625, 0.0625, 0.125, 0.125, 0.125, 0.125, 0.25},
		},
		ComplexityComplex: {
			{0.0625, 0.0625, 0.0625, 0.0625, 0.0625, 0.0625, 0.0625, 0.0625, 0.125, 0.125, 0.125, 0.125},
			{0.03125, 0.03125, 0.0625, 0.0625, 0.125, 0.0625, 0.0625, 0.125, 0.125, 0.125, 0.0625, 0.0625, 0.0625},
			{0.125, 0.0625, 0.0625, 0.0625, 0.0625, 0.125, 0.0625, 0.0625, 0.125, 0.125, 0.125},
		},
	},
}

// melodicPatterns holds contour offsets in scale degrees relative to the
// current chord root, per mood.
var melodicPatterns = map[Mood][][]int{
	MoodHappy: {
		{0, 2, 4, 7}, // triad plus octave
		{0, 4, 7, 4, 0},
		{0, 2, 4, 5, 7},
	},
	MoodSad: {
		{0, 3, 7, 10},
		{0, -2, -3, -5}, // falling line
		{0, 3, 2, 0},
	},
	MoodEnergetic: {
		{0, 7, 12, 7}, // octave leaps
		{0, 4, 7, 11},
		{0, 2, 4, 7, 9, 12},
	},
	MoodCalm: {
		{0, 5, 7, 12},
		{0, 2, 0, -3},
		{0, 4, 7, 5, 4, 0},
	},
	MoodNeutral: {
		{0, 4, 7},
		{0, 3, 7},
		{0, 2, 4, 5, 7, 9, 11, 12}, // full scale run
	},
}

func pickProgression(g Genre, ch *chooser) []string {
	candidates := chordProgressions[g]
	return candidates[ch.index(len(candidates))]
}

func pickRhythm(c Complexity, t Tempo, ch *chooser) []float64 {
	if patterns, ok := tempoRhythmPatterns[t][c]; ok {
		return patterns[ch.index(len(patterns))]
	}
	patterns := rhythmPatterns[c]
	return patterns[ch.index(len(patterns))]
}

func pickMelodic(m Mood, ch *chooser) []int {
	patterns := melodicPatterns[m]
	return patterns[ch.index(len(patterns))]
}

// barSpans distributes numBars across the progression: every chord gets the
// floor share, the leading remainder chords one extra bar.
func barSpans(numChords, numBars int) []int {
	spans := make([]int, numChords)
	base, extra := numBars/numChords, numBars%numChords
	for i := range spans {
		spans[i] = base
		if i < extra {
			spans[i]++
		}
	}
	return spans
}

// clampToScaleRange folds a pitch by octaves until it sits within one octave
// below and two above the scale root, so contours stay in a playable range
// without losing their pitch class.
func clampToScaleRange(scale theory.Scale, pitch int) int {
	lo := scale.RootMidi(melodyOctave) - 12
	hi := scale.RootMidi(melodyOctave) + 24
	for pitch < lo {
		pitch += 12
	}
	for pitch > hi {
		pitch -= 12
	}
	return pitch
}

// generateHarmony lays a chosen progression across the requested bars, one
// chord event per progression chord spanning its allotted bars.
func generateHarmony(scale theory.Scale, p Params, ch *chooser) ([]models.ChordEvent, error) {
	progression := pickProgression(p.Genre, ch)
	spans := barSpans(len(progression), p.Length.Bars())

	events := make([]models.ChordEvent, 0, len(progression))
	start := 0.0
	for i, symbol := range progression {
		if spans[i] == 0 {
			continue
		}
		chord, err := theory.ResolveSymbol(symbol, scale)
		if err != nil {
			return nil, fmt.Errorf("resolve chord %s: %w", symbol, err)
		}
		dur := float64(spans[i]) * beatsPerBar
		events = append(events, models.ChordEvent{
			ChordSymbol:   chord.Name,
			MidiNotes:     chord.Midi(harmonyOctave),
			StartBeats:    start,
			DurationBeats: dur,
		})
		start += dur
	}
	return events, nil
}

// generateComposition builds both lines from the rule tables: chords from the
// progression spans, melody by cycling a mood contour over each chord's
// rhythm slots, starting on the chord root's scale degree.
func generateComposition(scale theory.Scale, p Params, ch *chooser) ([]models.NoteEvent, []models.ChordEvent, error) {
	progression := pickProgression(p.Genre, ch)
	spans := barSpans(len(progression), p.Length.Bars())

	var melody []models.NoteEvent
	harmony := make([]models.ChordEvent, 0, len(progression))
	start := 0.0
	for i, symbol := range progression {
		if spans[i] == 0 {
			continue
		}
		chord, err := theory.ResolveSymbol(symbol, scale)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve chord %s: %w", symbol, err)
		}
		spanBeats := float64(spans[i]) * beatsPerBar
		harmony = append(harmony, models.ChordEvent{
			ChordSymbol:   chord.Name,
			MidiNotes:     chord.Midi(harmonyOctave),
			StartBeats:    start,
			DurationBeats: spanBeats,
		})

		rhythm := pickRhythm(p.Complexity, p.Tempo, ch)
		contour := pickMelodic(p.Mood, ch)
		startDegree := scale.DegreeForPitchClass(chord.RootPitchClass())

		slot := 0
		noteStart := start
		for bar := 0; bar < spans[i]; bar++ {
			for _, frac := range rhythm {
				offset := contour[slot%len(contour)]
				pitch := clampToScaleRange(scale, scale.DegreeMidi(startDegree+offset, melodyOctave))
				durBeats := frac * beatsPerBar
				melody = append(melody, models.NoteEvent{
					MidiNoteNumber: pitch,
					Velocity:       baseVelocity,
					StartBeats:     noteStart,
					DurationBeats:  durBeats,
				})
				noteStart += durBeats
				slot++
			}
		}
		start += spanBeats
	}
	return melody, harmony, nil
}
