package render

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/writer"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

const ticksPerBeat = 960

// timedMessage is a note boundary placed on the tick grid. Offs sort before
// ons at the same tick so retriggered keys release before they restrike.
type timedMessage struct {
	tick uint32
	off  bool
	key  uint8
	vel  uint8
}

func beatsToTicks(beats float64) uint32 {
	return uint32(math.Round(beats * ticksPerBeat))
}

func noteMessages(notes []models.NoteEvent) []timedMessage {
	msgs := make([]timedMessage, 0, 2*len(notes))
	for _, n := range notes {
		start := beatsToTicks(n.StartBeats)
		end := beatsToTicks(n.StartBeats + n.DurationBeats)
		if end <= start {
			continue
		}
		msgs = append(msgs, timedMessage{tick: start, key: uint8(n.MidiNoteNumber), vel: uint8(n.Velocity)})
		msgs = append(msgs, timedMessage{tick: end, off: true, key: uint8(n.MidiNoteNumber)})
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})
	return msgs
}

// WriteSMF writes the composition as a format 1 MIDI file with one melody
// track and one harmony track per instrument.
func WriteSMF(comp *models.Composition, instruments []string, path string) error {
	if len(instruments) == 0 {
		instruments = []string{"Piano"}
	}
	numTracks := uint16(2 * len(instruments))

	return writer.WriteSMF(path, numTracks, func(wr *writer.SMF) error {
		// The tempo map lives in the first track; players merge it across
		// the rest.
		if err := writer.TempoBPM(wr, float64(comp.BPM)); err != nil {
			return fmt.Errorf("tempo: %w", err)
		}
		for slot, instrument := range instruments {
			notes := articulate(instrument, comp.Melody)
			if err := writeTrack(wr, instrument, "melody", slot, notes); err != nil {
				return fmt.Errorf("melody track %s: %w", instrument, err)
			}
		}
		for slot, instrument := range instruments {
			notes := harmonyVoice(slot, len(instruments), instrument, comp.Harmony)
			if err := writeTrack(wr, instrument, "harmony", slot, notes); err != nil {
				return fmt.Errorf("harmony track %s: %w", instrument, err)
			}
		}
		return nil
	})
}

func writeTrack(wr *writer.SMF, instrument, line string, slot int, notes []models.NoteEvent) error {
	if err := writer.TrackSequenceName(wr, instrument+" "+line); err != nil {
		return err
	}
	if err := writer.Instrument(wr, instrument); err != nil {
		return err
	}

	wr.SetChannel(channelFor(slot, instrument))
	if instrument != "Drums" {
		if err := writer.ProgramChange(wr, programFor(instrument)); err != nil {
			return err
		}
	}

	lastTick := uint32(0)
	for _, msg := range noteMessages(notes) {
		wr.SetDelta(msg.tick - lastTick)
		lastTick = msg.tick

		var err error
		if msg.off {
			err = writer.NoteOff(wr, msg.key)
		} else {
			err = writer.NoteOn(wr, msg.key, msg.vel)
		}
		if err != nil {
			return err
		}
	}
	return writer.EndOfTrack(wr)
}
