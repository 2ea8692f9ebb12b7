package models

// NoteEvent represents a single musical note with timing and pitch information
type NoteEvent struct {
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"startBeats"`
	DurationBeats  float64 `json:"durationBeats"`
}

// ChordEvent represents a chord with timing information
type ChordEvent struct {
	ChordSymbol   string  `json:"chordSymbol"`
	MidiNotes     []int   `json:"midiNotes"`
	StartBeats    float64 `json:"startBeats"`
	DurationBeats float64 `json:"durationBeats"`
}

// Composition is one generated piece. Immutable once produced; compositions
// are rendered to audio but never persisted.
type Composition struct {
	Melody  []NoteEvent  `json:"melody"`
	Harmony []ChordEvent `json:"harmony"`
	BPM     int          `json:"bpm"`
	Bars    int          `json:"bars"`
	Genre   string       `json:"genre"`
	Scale   string       `json:"scale"`
	Mood    string       `json:"mood"`
	Mode    string       `json:"mode"`
}

// VocalsRequest is accepted for interface compatibility and ignored; vocal
// synthesis is out of scope.
type VocalsRequest struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"` // "Male", "Female", "Duet"
}

// GenerationRequest wraps the user's generation parameters. Genre is the only
// required field; everything else has a documented default.
type GenerationRequest struct {
	Genre       string         `json:"genre"`
	Instruments []string       `json:"instruments,omitempty"` // default ["Piano"]
	Scale       string         `json:"scale,omitempty"`       // default "C Major"
	Mood        string         `json:"mood,omitempty"`        // default "Neutral"
	Tempo       string         `json:"tempo,omitempty"`       // Slow/Medium/Fast, default "Medium"
	Length      string         `json:"length,omitempty"`      // Short/Medium/Long, default "Medium"
	Vocals      *VocalsRequest `json:"vocals,omitempty"`
	Complexity  string         `json:"complexity,omitempty"` // Simple/Intermediate/Complex, default "Simple"
	Mode        string         `json:"mode,omitempty"`       // markov/rule/hybrid, default "hybrid"
	Seed        *int64         `json:"seed,omitempty"`       // Optional seed for reproducibility
}
