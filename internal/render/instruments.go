package render

import "github.com/cadenza-labs/cadenza-api/internal/models"

const percussionChannel = 9

// General MIDI program numbers for the instruments the web form offers.
// Unknown names fall back to piano.
var gmPrograms = map[string]uint8{
	"Piano":   0,
	"Guitar":  24,
	"Bass":    33,
	"Strings": 48,
	"Violin":  40,
	"Synth":   80,
	"Flute":   73,
	"Trumpet": 56,
}

const (
	kickDrum  = 36
	snareDrum = 38
)

func programFor(instrument string) uint8 {
	if p, ok := gmPrograms[instrument]; ok {
		return p
	}
	return gmPrograms["Piano"]
}

// channelFor assigns one MIDI channel per instrument slot. Drums always get
// the percussion channel; pitched instruments count past it.
func channelFor(slot int, instrument string) uint8 {
	if instrument == "Drums" {
		return percussionChannel
	}
	ch := uint8(slot)
	if ch >= percussionChannel {
		ch++
	}
	return ch % 16
}

// articulate rewrites the shared melody line into the concrete notes one
// instrument plays. Each instrument has its own register shift, velocity and
// note-picking rule, so stacked instruments layer instead of doubling.
func articulate(instrument string, melody []models.NoteEvent) []models.NoteEvent {
	out := make([]models.NoteEvent, 0, len(melody))
	for i, note := range melody {
		switch instrument {
		case "Piano":
			note.Velocity = 100
			out = append(out, note)
		case "Guitar":
			if i%3 == 0 {
				note.MidiNoteNumber += 12
			}
			note.Velocity = 90
			out = append(out, note)
		case "Bass":
			if i%4 == 0 {
				note.MidiNoteNumber -= 12
			}
			note.Velocity = 95
			out = append(out, note)
		case "Drums":
			// Drums ignore pitch. Even steps get a snare, every fourth step
			// doubles a kick under it, odd steps rest.
			if i%2 != 0 {
				continue
			}
			snare := note
			snare.MidiNoteNumber = snareDrum
			snare.Velocity = 100
			out = append(out, snare)
			if i%4 == 0 {
				kick := note
				kick.MidiNoteNumber = kickDrum
				kick.Velocity = 110
				out = append(out, kick)
			}
		case "Violin":
			if i%2 == 1 {
				note.MidiNoteNumber += 12
			}
			note.Velocity = 85
			out = append(out, note)
		case "Synth":
			if i%3 == 1 {
				note.MidiNoteNumber += 7
			}
			note.Velocity = 80
			out = append(out, note)
		case "Flute":
			if i%3 == 2 {
				note.MidiNoteNumber += 24
			}
			note.Velocity = 75
			out = append(out, note)
		case "Trumpet":
			if i%4 == 2 {
				note.MidiNoteNumber += 12
			}
			note.Velocity = 90
			out = append(out, note)
		default:
			note.Velocity = 90
			out = append(out, note)
		}
	}
	return out
}

// harmonyVoice spreads each chord across the instrument slots, slot i taking
// every len(instruments)-th chord tone. Drums mark chord starts with a kick
// instead of leaking pitched notes onto the percussion channel.
func harmonyVoice(slot, numSlots int, instrument string, harmony []models.ChordEvent) []models.NoteEvent {
	var out []models.NoteEvent
	for _, chord := range harmony {
		if instrument == "Drums" {
			out = append(out, models.NoteEvent{
				MidiNoteNumber: kickDrum,
				Velocity:       90,
				StartBeats:     chord.StartBeats,
				DurationBeats:  1,
			})
			continue
		}
		for j, pitch := range chord.MidiNotes {
			if j%numSlots != slot {
				continue
			}
			out = append(out, models.NoteEvent{
				MidiNoteNumber: pitch,
				Velocity:       80,
				StartBeats:     chord.StartBeats,
				DurationBeats:  chord.DurationBeats,
			})
		}
	}
	return out
}
