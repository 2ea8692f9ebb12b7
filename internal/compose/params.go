// Package compose holds the generation core: the Markov melody sampler, the
// rule-table composer and the hybrid orchestrator that combines them.
package compose

import (
	"errors"
	"strings"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

// Genre selects the progression tables and transition matrices.
type Genre string

const (
	GenrePop       Genre = "Pop"
	GenreRock      Genre = "Rock"
	GenreJazz      Genre = "Jazz"
	GenreClassical Genre = "Classical"
	GenreBlues     Genre = "Blues"
)

// Mood selects transition matrices and melodic contour patterns.
type Mood string

const (
	MoodHappy     Mood = "Happy"
	MoodSad       Mood = "Sad"
	MoodEnergetic Mood = "Energetic"
	MoodCalm      Mood = "Calm"
	MoodNeutral   Mood = "Neutral"
)

// Tempo is a coarse speed bucket; BPM gives the concrete rate.
type Tempo string

const (
	TempoSlow   Tempo = "Slow"
	TempoMedium Tempo = "Medium"
	TempoFast   Tempo = "Fast"
)

// Length is a coarse duration bucket; Bars gives the concrete count.
type Length string

const (
	LengthShort  Length = "Short"
	LengthMedium Length = "Medium"
	LengthLong   Length = "Long"
)

// Complexity shapes both the transition-matrix transform and the rhythm tables.
type Complexity string

const (
	ComplexitySimple       Complexity = "Simple"
	ComplexityIntermediate Complexity = "Intermediate"
	ComplexityComplex      Complexity = "Complex"
)

// Mode selects which generator produces which line.
type Mode string

const (
	ModeMarkov Mode = "markov"
	ModeRule   Mode = "rule"
	ModeHybrid Mode = "hybrid"
)

// ParseGenre maps any non-empty string onto a known genre, defaulting to Pop.
// Empty input is rejected by ParamsFromRequest before parsing.
func ParseGenre(s string) Genre {
	switch Genre(s) {
	case GenrePop, GenreRock, GenreJazz, GenreClassical, GenreBlues:
		return Genre(s)
	}
	return GenrePop
}

// ParseMood defaults to Neutral.
func ParseMood(s string) Mood {
	switch Mood(s) {
	case MoodHappy, MoodSad, MoodEnergetic, MoodCalm, MoodNeutral:
		return Mood(s)
	}
	return MoodNeutral
}

// ParseTempo defaults to Medium.
func ParseTempo(s string) Tempo {
	switch Tempo(s) {
	case TempoSlow, TempoMedium, TempoFast:
		return Tempo(s)
	}
	return TempoMedium
}

// ParseLength defaults to Medium.
func ParseLength(s string) Length {
	switch Length(s) {
	case LengthShort, LengthMedium, LengthLong:
		return Length(s)
	}
	return LengthMedium
}

// ParseComplexity defaults to Simple.
func ParseComplexity(s string) Complexity {
	switch Complexity(s) {
	case ComplexitySimple, ComplexityIntermediate, ComplexityComplex:
		return Complexity(s)
	}
	return ComplexitySimple
}

// ParseMode defaults to hybrid.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeMarkov, ModeRule, ModeHybrid:
		return Mode(s)
	}
	return ModeHybrid
}

// BPM converts the tempo bucket to beats per minute.
func (t Tempo) BPM() int {
	switch t {
	case TempoSlow:
		return 70
	case TempoFast:
		return 120
	}
	return 100
}

// Bars converts the length bucket to a bar count.
func (l Length) Bars() int {
	switch l {
	case LengthShort:
		return 16
	case LengthLong:
		return 64
	}
	return 32
}

// Params are the fully resolved generation parameters. Build them with
// ParamsFromRequest so every field carries its documented default.
type Params struct {
	Genre       Genre
	Instruments []string
	Scale       string
	Mood        Mood
	Tempo       Tempo
	Length      Length
	Complexity  Complexity
	Mode        Mode
	Seed        *int64
}

// ErrGenreRequired is returned before any generation work happens.
var ErrGenreRequired = errors.New("genre is required")

// ParamsFromRequest applies defaults to a raw request. Genre is the only
// required field; every other unknown value degrades to its default.
func ParamsFromRequest(req models.GenerationRequest) (Params, error) {
	if strings.TrimSpace(req.Genre) == "" {
		return Params{}, ErrGenreRequired
	}

	instruments := req.Instruments
	if len(instruments) == 0 {
		instruments = []string{"Piano"}
	}
	scale := req.Scale
	if strings.TrimSpace(scale) == "" {
		scale = "C Major"
	}

	return Params{
		Genre:       ParseGenre(req.Genre),
		Instruments: instruments,
		Scale:       scale,
		Mood:        ParseMood(req.Mood),
		Tempo:       ParseTempo(req.Tempo),
		Length:      ParseLength(req.Length),
		Complexity:  ParseComplexity(req.Complexity),
		Mode:        ParseMode(req.Mode),
		Seed:        req.Seed,
	}, nil
}
