package render

import (
	"sort"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

// LiveEvent is a note boundary scheduled in beats from the start of the
// piece, addressed to a concrete MIDI channel.
type LiveEvent struct {
	AtBeats  float64
	Off      bool
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// PreviewPlan lays out a composition for live playback: GM program per
// channel, then note boundaries ordered by beat offset. The same
// articulation and harmony voicing as the SMF export applies, so a
// preview sounds like the rendered track.
type PreviewPlan struct {
	Programs map[uint8]uint8
	Events   []LiveEvent
}

func BuildPreview(comp *models.Composition, instruments []string) *PreviewPlan {
	if len(instruments) == 0 {
		instruments = []string{"Piano"}
	}

	plan := &PreviewPlan{Programs: make(map[uint8]uint8)}
	for slot, instrument := range instruments {
		ch := channelFor(slot, instrument)
		if instrument != "Drums" {
			plan.Programs[ch] = programFor(instrument)
		}

		plan.appendNotes(ch, articulate(instrument, comp.Melody))
		plan.appendNotes(ch, harmonyVoice(slot, len(instruments), instrument, comp.Harmony))
	}

	sort.SliceStable(plan.Events, func(i, j int) bool {
		a, b := plan.Events[i], plan.Events[j]
		if a.AtBeats != b.AtBeats {
			return a.AtBeats < b.AtBeats
		}
		return a.Off && !b.Off
	})
	return plan
}

func (p *PreviewPlan) appendNotes(ch uint8, notes []models.NoteEvent) {
	for _, n := range notes {
		if n.DurationBeats <= 0 {
			continue
		}
		p.Events = append(p.Events, LiveEvent{
			AtBeats:  n.StartBeats,
			Channel:  ch,
			Key:      uint8(n.MidiNoteNumber),
			Velocity: uint8(n.Velocity),
		})
		p.Events = append(p.Events, LiveEvent{
			AtBeats: n.StartBeats + n.DurationBeats,
			Off:     true,
			Channel: ch,
			Key:     uint8(n.MidiNoteNumber),
		})
	}
}
