// Package theory holds the scale, chord and pitch tables the generators walk
// over. Pure data and pure functions, no I/O.
package theory

import (
	"fmt"
	"strings"
)

// noteOffsets maps note names to semitone offsets from C. Sharp and flat
// spellings share an offset.
var noteOffsets = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8,
	"Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// sharpNames spells the twelve pitch classes with sharps.
var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// scalePatterns holds semitone intervals from the scale root.
var scalePatterns = map[string][]int{
	"Major":            {0, 2, 4, 5, 7, 9, 11},
	"Minor":            {0, 2, 3, 5, 7, 8, 10},
	"Dorian":           {0, 2, 3, 5, 7, 9, 10},
	"Phrygian":         {0, 1, 3, 5, 7, 8, 10},
	"Lydian":           {0, 2, 4, 6, 7, 9, 11},
	"Mixolydian":       {0, 2, 4, 5, 7, 9, 10},
	"Locrian":          {0, 1, 3, 5, 6, 8, 10},
	"Blues":            {0, 3, 5, 6, 7, 10},
	"Pentatonic Major": {0, 2, 4, 7, 9},
	"Pentatonic Minor": {0, 3, 5, 7, 10},
}

// chordPatterns holds semitone intervals from the chord root.
var chordPatterns = map[string][]int{
	"Major":              {0, 4, 7},
	"Minor":              {0, 3, 7},
	"Diminished":         {0, 3, 6},
	"Augmented":          {0, 4, 8},
	"Sus2":               {0, 2, 7},
	"Sus4":               {0, 5, 7},
	"Major 7":            {0, 4, 7, 11},
	"Minor 7":            {0, 3, 7, 10},
	"Dominant 7":         {0, 4, 7, 10},
	"Diminished 7":       {0, 3, 6, 9},
	"Half Diminished 7":  {0, 3, 6, 10},
	"Augmented 7":        {0, 4, 8, 10},
}

// degreeSemitones gives the semitone offset of each Roman-numeral degree.
// Scales other than Major use the minor-key spelling.
var degreeSemitones = map[string]map[string]int{
	"Major": {"I": 0, "II": 2, "III": 4, "IV": 5, "V": 7, "VI": 9, "VII": 11},
	"Minor": {"I": 0, "II": 2, "III": 3, "IV": 5, "V": 7, "VI": 8, "VII": 10},
}

// seventhQualities extends a triad quality when a symbol carries a 7.
var seventhQualities = map[string]string{
	"Major":      "Dominant 7",
	"Minor":      "Minor 7",
	"Diminished": "Diminished 7",
}

// NoteToMidi converts a note name and octave to a MIDI note number, with
// C4 = 60.
func NoteToMidi(name string, octave int) (int, error) {
	offset, ok := noteOffsets[name]
	if !ok {
		return 0, fmt.Errorf("invalid note: %s", name)
	}
	return (octave+1)*12 + offset, nil
}

// MidiToNote returns the sharp spelling and octave of a MIDI note number.
func MidiToNote(midi int) (string, int) {
	pc := ((midi % 12) + 12) % 12
	return sharpNames[pc], midi/12 - 1
}

// ChordNotes builds the chord tones for a quality on top of a root pitch.
// Unknown qualities yield just the root.
func ChordNotes(rootMidi int, quality string) []int {
	pattern, ok := chordPatterns[quality]
	if !ok {
		return []int{rootMidi}
	}
	notes := make([]int, len(pattern))
	for i, interval := range pattern {
		notes[i] = rootMidi + interval
	}
	return notes
}

// Scale is a parsed key: a root pitch class plus an interval pattern.
type Scale struct {
	Root    string
	Type    string
	pattern []int
}

// ParseScale parses names like "C Major" or "F# Minor". Unrecognized roots
// fall back to C and unrecognized types to Major, so every input yields a
// usable scale.
func ParseScale(name string) Scale {
	root, scaleType := "C", "Major"
	parts := strings.Fields(name)
	if len(parts) > 0 {
		if _, ok := noteOffsets[parts[0]]; ok {
			root = parts[0]
		}
	}
	if len(parts) > 1 {
		if t := strings.Join(parts[1:], " "); scalePatterns[t] != nil {
			scaleType = t
		}
	}
	return Scale{Root: root, Type: scaleType, pattern: scalePatterns[scaleType]}
}

// Len returns the number of pitch classes in the scale pattern.
func (s Scale) Len() int { return len(s.pattern) }

// RootMidi returns the scale root at the given octave.
func (s Scale) RootMidi(octave int) int {
	return (octave+1)*12 + noteOffsets[s.Root]
}

// DegreeMidi maps a zero-based degree index to an absolute pitch. Indexes past
// the end of the pattern wrap into higher octaves, negative indexes into lower
// ones.
func (s Scale) DegreeMidi(idx, octave int) int {
	n := len(s.pattern)
	oct, step := idx/n, idx%n
	if step < 0 {
		step += n
		oct--
	}
	return s.RootMidi(octave) + s.pattern[step] + 12*oct
}

// Degrees returns the eight pitches the melody generators walk over, starting
// at the given octave. For seven-note patterns degree eight is the root an
// octave up.
func (s Scale) Degrees(octave int) [8]int {
	var out [8]int
	for i := range out {
		out[i] = s.DegreeMidi(i, octave)
	}
	return out
}

// DegreeForPitchClass returns the degree index whose pitch class is nearest
// the given one. Exact members of the scale match their own degree; ties
// between neighbors go to the lower degree.
func (s Scale) DegreeForPitchClass(pc int) int {
	rootPC := noteOffsets[s.Root]
	best, bestDist := 0, 13
	for i, interval := range s.pattern {
		d := (rootPC+interval)%12 - ((pc%12)+12)%12
		if d < 0 {
			d = -d
		}
		if 12-d < d {
			d = 12 - d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Chord is a resolved progression chord.
type Chord struct {
	Symbol  string // Roman numeral as written, e.g. "bVII"
	Name    string // resolved name, e.g. "A# Major"
	Root    string // root pitch class, sharp spelling
	Quality string // key into chordPatterns
}

// Midi returns the chord tones with the root voiced at the given octave.
func (c Chord) Midi(octave int) []int {
	return ChordNotes((octave+1)*12+noteOffsets[c.Root], c.Quality)
}

// RootPitchClass returns the chord root as a pitch class 0..11.
func (c Chord) RootPitchClass() int {
	return noteOffsets[c.Root]
}

// ResolveSymbol turns a Roman-numeral progression symbol into a concrete
// chord within the scale. A leading "b" lowers the degree a semitone, a
// trailing "7" extends the triad. Lowercase numerals are minor except vii,
// which is diminished.
func ResolveSymbol(symbol string, scale Scale) (Chord, error) {
	numeral := symbol
	flat := strings.HasPrefix(numeral, "b")
	if flat {
		numeral = numeral[1:]
	}
	seventh := strings.HasSuffix(numeral, "7")
	if seventh {
		numeral = strings.TrimSuffix(numeral, "7")
	}

	mode := "Minor"
	if scale.Type == "Major" {
		mode = "Major"
	}
	offset, ok := degreeSemitones[mode][strings.ToUpper(numeral)]
	if !ok {
		return Chord{}, fmt.Errorf("unknown chord symbol: %s", symbol)
	}
	if flat {
		offset--
	}

	quality := "Major"
	switch {
	case numeral == "vii":
		quality = "Diminished"
	case !flat && numeral == strings.ToLower(numeral):
		quality = "Minor"
	}
	if seventh {
		quality = seventhQualities[quality]
	}

	rootName, _ := MidiToNote(noteOffsets[scale.Root] + offset)
	return Chord{Symbol: symbol, Name: rootName + " " + quality, Root: rootName, Quality: quality}, nil
}
