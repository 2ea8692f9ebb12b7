package render

import (
	"testing"

	"github.com/cadenza-labs/cadenza-api/internal/models"
)

func TestBuildPreviewOrdersEvents(t *testing.T) {
	comp := &models.Composition{
		BPM: 100,
		Melody: []models.NoteEvent{
			{MidiNoteNumber: 62, Velocity: 90, StartBeats: 1, DurationBeats: 1},
			{MidiNoteNumber: 60, Velocity: 90, StartBeats: 0, DurationBeats: 1},
		},
		Harmony: []models.ChordEvent{
			{ChordSymbol: "C Major", MidiNotes: []int{48, 52, 55}, StartBeats: 0, DurationBeats: 2},
		},
	}

	plan := BuildPreview(comp, []string{"Piano"})

	prog, ok := plan.Programs[0]
	if !ok {
		t.Fatal("Expected a program change on channel 0")
	}
	if prog != 0 {
		t.Errorf("Expected piano program 0, got %d", prog)
	}

	last := -1.0
	for i, ev := range plan.Events {
		if ev.AtBeats < last {
			t.Fatalf("Event %d at %.2f beats is earlier than previous %.2f", i, ev.AtBeats, last)
		}
		last = ev.AtBeats
	}

	ons, offs := 0, 0
	for _, ev := range plan.Events {
		if ev.Off {
			offs++
		} else {
			ons++
		}
	}
	if ons != offs {
		t.Errorf("Expected balanced on/off events, got %d on / %d off", ons, offs)
	}
	// Piano keeps every melody note, and a single instrument takes all
	// three chord tones.
	if want := 2 + 3; ons != want {
		t.Errorf("Expected %d note-ons, got %d", want, ons)
	}
}

func TestBuildPreviewDrumsSkipProgram(t *testing.T) {
	comp := &models.Composition{
		BPM: 100,
		Melody: []models.NoteEvent{
			{MidiNoteNumber: 60, Velocity: 90, StartBeats: 0, DurationBeats: 1},
			{MidiNoteNumber: 62, Velocity: 90, StartBeats: 1, DurationBeats: 1},
		},
	}

	plan := BuildPreview(comp, []string{"Drums"})

	if _, ok := plan.Programs[9]; ok {
		t.Error("Drums must not get a program change")
	}
	if len(plan.Events) == 0 {
		t.Fatal("Expected drum events")
	}
	for _, ev := range plan.Events {
		if ev.Channel != 9 {
			t.Errorf("Drum event on channel %d, want 9", ev.Channel)
		}
	}
}
