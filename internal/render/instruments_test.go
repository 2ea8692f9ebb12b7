package render

import (
	"testing"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

func testMelody(n int) []models.NoteEvent {
	melody := make([]models.NoteEvent, n)
	for i := range melody {
		melody[i] = models.NoteEvent{
			MidiNoteNumber: 60 + i,
			Velocity:       90,
			StartBeats:     float64(i),
			DurationBeats:  1,
		}
	}
	return melody
}

func TestArticulatePiano(t *testing.T) {
	melody := testMelody(4)
	out := articulate("Piano", melody)

	if len(out) != 4 {
		t.Fatalf("Expected 4 notes, got %d", len(out))
	}
	for i, note := range out {
		if note.Velocity != 100 {
			t.Errorf("Note %d: velocity %d, want 100", i, note.Velocity)
		}
		if note.MidiNoteNumber != melody[i].MidiNoteNumber {
			t.Errorf("Note %d: pitch changed to %d", i, note.MidiNoteNumber)
		}
	}
}

func TestArticulateBassDropsOctaveEveryFourth(t *testing.T) {
	melody := testMelody(8)
	out := articulate("Bass", melody)

	if len(out) != 8 {
		t.Fatalf("Expected 8 notes, got %d", len(out))
	}
	for i, note := range out {
		want := melody[i].MidiNoteNumber
		if i%4 == 0 {
			want -= 12
		}
		if note.MidiNoteNumber != want {
			t.Errorf("Note %d: pitch %d, want %d", i, note.MidiNoteNumber, want)
		}
		if note.Velocity != 95 {
			t.Errorf("Note %d: velocity %d, want 95", i, note.Velocity)
		}
	}
}

func TestArticulateDrums(t *testing.T) {
	out := articulate("Drums", testMelody(8))

	// Steps 0 and 4 carry kick plus snare, steps 2 and 6 snare only,
	// odd steps rest.
	if len(out) != 6 {
		t.Fatalf("Expected 6 drum hits, got %d", len(out))
	}
	var kicks, snares int
	for i, note := range out {
		switch note.MidiNoteNumber {
		case kickDrum:
			kicks++
		case snareDrum:
			snares++
		default:
			t.Errorf("Hit %d: pitched note %d leaked onto the drum line", i, note.MidiNoteNumber)
		}
	}
	if snares != 4 {
		t.Errorf("Expected 4 snares, got %d", snares)
	}
	if kicks != 2 {
		t.Errorf("Expected 2 kicks, got %d", kicks)
	}
}

func TestArticulateUnknownInstrumentPassesThrough(t *testing.T) {
	melody := testMelody(3)
	out := articulate("Theremin", melody)

	if len(out) != 3 {
		t.Fatalf("Expected 3 notes, got %d", len(out))
	}
	for i, note := range out {
		if note.MidiNoteNumber != melody[i].MidiNoteNumber {
			t.Errorf("Note %d: pitch changed to %d", i, note.MidiNoteNumber)
		}
		if note.Velocity != 90 {
			t.Errorf("Note %d: velocity %d, want 90", i, note.Velocity)
		}
	}
}

func TestChannelFor(t *testing.T) {
	tests := []struct {
		slot       int
		instrument string
		expected   uint8
	}{
		{0, "Piano", 0},
		{3, "Guitar", 3},
		{0, "Drums", 9},
		{5, "Drums", 9},
		{9, "Violin", 10}, // pitched slots skip the percussion channel
		{10, "Flute", 11},
	}

	for _, tt := range tests {
		if got := channelFor(tt.slot, tt.instrument); got != tt.expected {
			t.Errorf("channelFor(%d, %s) = %d, want %d", tt.slot, tt.instrument, got, tt.expected)
		}
	}
}

func TestProgramFor(t *testing.T) {
	if got := programFor("Piano"); got != 0 {
		t.Errorf("Piano program = %d, want 0", got)
	}
	if got := programFor("Trumpet"); got != 56 {
		t.Errorf("Trumpet program = %d, want 56", got)
	}
	if got := programFor("Kazoo"); got != 0 {
		t.Errorf("Unknown instrument program = %d, want piano fallback 0", got)
	}
}

func TestHarmonyVoiceDistributesChordTones(t *testing.T) {
	harmony := []models.ChordEvent{
		{ChordSymbol: "C Major", MidiNotes: []int{60, 64, 67}, StartBeats: 0, DurationBeats: 4},
		{ChordSymbol: "G Major", MidiNotes: []int{67, 71, 74}, StartBeats: 4, DurationBeats: 4},
	}

	first := harmonyVoice(0, 2, "Piano", harmony)
	second := harmonyVoice(1, 2, "Guitar", harmony)

	wantFirst := []int{60, 67, 67, 74}
	wantSecond := []int{64, 71}

	if len(first) != len(wantFirst) {
		t.Fatalf("Slot 0: expected %d notes, got %d", len(wantFirst), len(first))
	}
	for i, note := range first {
		if note.MidiNoteNumber != wantFirst[i] {
			t.Errorf("Slot 0 note %d: pitch %d, want %d", i, note.MidiNoteNumber, wantFirst[i])
		}
		if note.Velocity != 80 {
			t.Errorf("Slot 0 note %d: velocity %d, want 80", i, note.Velocity)
		}
	}
	if len(second) != len(wantSecond) {
		t.Fatalf("Slot 1: expected %d notes, got %d", len(wantSecond), len(second))
	}
	for i, note := range second {
		if note.MidiNoteNumber != wantSecond[i] {
			t.Errorf("Slot 1 note %d: pitch %d, want %d", i, note.MidiNoteNumber, wantSecond[i])
		}
	}
}

func TestHarmonyVoiceDrumsMarkChordStarts(t *testing.T) {
	harmony := []models.ChordEvent{
		{ChordSymbol: "C Major", MidiNotes: []int{60, 64, 67}, StartBeats: 0, DurationBeats: 8},
		{ChordSymbol: "F Major", MidiNotes: []int{65, 69, 72}, StartBeats: 8, DurationBeats: 8},
	}

	out := harmonyVoice(1, 3, "Drums", harmony)
	if len(out) != 2 {
		t.Fatalf("Expected one kick per chord, got %d notes", len(out))
	}
	for i, note := range out {
		if note.MidiNoteNumber != kickDrum {
			t.Errorf("Hit %d: pitch %d, want kick %d", i, note.MidiNoteNumber, kickDrum)
		}
		if note.StartBeats != harmony[i].StartBeats {
			t.Errorf("Hit %d: start %v, want chord start %v", i, note.StartBeats, harmony[i].StartBeats)
		}
	}
}
