package compose

import (
	"errors"
	"testing"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

func TestParseAxesFallBackToDefaults(t *testing.T) {
	if got := ParseGenre("Dubstep"); got != GenrePop {
		t.Errorf("ParseGenre(Dubstep) = %s, want Pop", got)
	}
	if got := ParseGenre("Jazz"); got != GenreJazz {
		t.Errorf("ParseGenre(Jazz) = %s, want Jazz", got)
	}
	if got := ParseMood("Angry"); got != MoodNeutral {
		t.Errorf("ParseMood(Angry) = %s, want Neutral", got)
	}
	if got := ParseTempo("Allegro"); got != TempoMedium {
		t.Errorf("ParseTempo(Allegro) = %s, want Medium", got)
	}
	if got := ParseLength(""); got != LengthMedium {
		t.Errorf("ParseLength(empty) = %s, want Medium", got)
	}
	if got := ParseComplexity("extreme"); got != ComplexitySimple {
		t.Errorf("ParseComplexity(extreme) = %s, want Simple", got)
	}
	if got := ParseMode("neural"); got != ModeHybrid {
		t.Errorf("ParseMode(neural) = %s, want hybrid", got)
	}
	if got := ParseMode("markov"); got != ModeMarkov {
		t.Errorf("ParseMode(markov) = %s, want markov", got)
	}
}

func TestTempoBPM(t *testing.T) {
	tests := []struct {
		tempo    Tempo
		expected int
	}{
		{TempoSlow, 70},
		{TempoMedium, 100},
		{TempoFast, 120},
	}
	for _, tt := range tests {
		if got := tt.tempo.BPM(); got != tt.expected {
			t.Errorf("%s.BPM() = %d, want %d", tt.tempo, got, tt.expected)
		}
	}
}

func TestLengthBars(t *testing.T) {
	tests := []struct {
		length   Length
		expected int
	}{
		{LengthShort, 16},
		{LengthMedium, 32},
		{LengthLong, 64},
	}
	for _, tt := range tests {
		if got := tt.length.Bars(); got != tt.expected {
			t.Errorf("%s.Bars() = %d, want %d", tt.length, got, tt.expected)
		}
	}
}

func TestParamsFromRequestDefaults(t *testing.T) {
	p, err := ParamsFromRequest(models.GenerationRequest{Genre: "Pop"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if p.Genre != GenrePop {
		t.Errorf("Genre = %s, want Pop", p.Genre)
	}
	if len(p.Instruments) != 1 || p.Instruments[0] != "Piano" {
		t.Errorf("Instruments = %v, want [Piano]", p.Instruments)
	}
	if p.Scale != "C Major" {
		t.Errorf("Scale = %q, want C Major", p.Scale)
	}
	if p.Mood != MoodNeutral {
		t.Errorf("Mood = %s, want Neutral", p.Mood)
	}
	if p.Tempo != TempoMedium {
		t.Errorf("Tempo = %s, want Medium", p.Tempo)
	}
	if p.Length != LengthMedium {
		t.Errorf("Length = %s, want Medium", p.Length)
	}
	if p.Complexity != ComplexitySimple {
		t.Errorf("Complexity = %s, want Simple", p.Complexity)
	}
	if p.Mode != ModeHybrid {
		t.Errorf("Mode = %s, want hybrid", p.Mode)
	}
	if p.Seed != nil {
		t.Errorf("Seed = %v, want nil", *p.Seed)
	}
}

func TestParamsFromRequestRequiresGenre(t *testing.T) {
	for _, genre := range []string{"", "   ", "\t"} {
		_, err := ParamsFromRequest(models.GenerationRequest{Genre: genre})
		if !errors.Is(err, ErrGenreRequired) {
			t.Errorf("Genre %q: expected ErrGenreRequired, got %v", genre, err)
		}
	}
}

func TestParamsFromRequestKeepsExplicitValues(t *testing.T) {
	seed := int64(99)
	req := models.GenerationRequest{
		Genre:       "Blues",
		Instruments: []string{"Guitar", "Bass"},
		Scale:       "A Minor",
		Mood:        "Sad",
		Tempo:       "Slow",
		Length:      "Long",
		Complexity:  "Complex",
		Mode:        "rule",
		Seed:        &seed,
	}

	p, err := ParamsFromRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Genre != GenreBlues || p.Mood != MoodSad || p.Tempo != TempoSlow ||
		p.Length != LengthLong || p.Complexity != ComplexityComplex || p.Mode != ModeRule {
		t.Errorf("Parsed params drifted from request: %+v", p)
	}
	if p.Seed == nil || *p.Seed != 99 {
		t.Error("Seed was not carried through")
	}
}
