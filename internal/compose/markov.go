package compose

import (
	"math"

	"github.com/cadenza-labs/cadenza-api/internal/models"
	"github.com/cadenza-labs/cadenza-api/internal/theory"
)

const (
	melodyOctave = 4
	beatsPerBar  = 4.0
	baseVelocity = 90
)

// matrixKey addresses one hand-authored transition matrix.
type matrixKey struct {
	genre Genre
	mood  Mood
}

// transitionMatrices holds the order-1 Markov tables. Rows are the current
// scale degree, columns the next; every row is a probability distribution.
var transitionMatrices = map[matrixKey][8][8]float64{
	{GenrePop, MoodHappy}: {
		{0.10, 0.15, 0.30, 0.00, 0.25, 0.00, 0.00, 0.20}, // from degree 1
		{0.20, 0.05, 0.40, 0.10, 0.15, 0.05, 0.05, 0.00}, // from degree 2
		{0.15, 0.10, 0.05, 0.25, 0.30, 0.10, 0.05, 0.00}, // from degree 3
		{0.05, 0.15, 0.20, 0.05, 0.40, 0.15, 0.00, 0.00}, // from degree 4
		{0.30, 0.05, 0.15, 0.10, 0.05, 0.20, 0.05, 0.10}, // from degree 5
		{0.10, 0.20, 0.10, 0.15, 0.25, 0.05, 0.15, 0.00}, // from degree 6
		{0.40, 0.05, 0.05, 0.10, 0.10, 0.10, 0.05, 0.15}, // from degree 7
		{0.50, 0.10, 0.10, 0.05, 0.15, 0.05, 0.05, 0.00}, // from degree 8 (octave)
	},
	{GenrePop, MoodSad}: {
		{0.15, 0.10, 0.05, 0.25, 0.10, 0.20, 0.10, 0.05},
		{0.20, 0.10, 0.15, 0.30, 0.05, 0.15, 0.05, 0.00},
		{0.10, 0.20, 0.10, 0.15, 0.10, 0.25, 0.10, 0.00},
		{0.15, 0.10, 0.20, 0.10, 0.15, 0.20, 0.10, 0.00},
		{0.20, 0.05, 0.10, 0.15, 0.10, 0.25, 0.15, 0.00},
		{0.15, 0.20, 0.10, 0.10, 0.15, 0.10, 0.20, 0.00},
		{0.30, 0.10, 0.05, 0.15, 0.10, 0.20, 0.05, 0.05},
		{0.40, 0.15, 0.10, 0.10, 0.15, 0.05, 0.05, 0.00},
	},
	{GenreClassical, MoodCalm}: {
		{0.15, 0.25, 0.15, 0.10, 0.20, 0.05, 0.05, 0.05},
		{0.20, 0.10, 0.25, 0.15, 0.10, 0.15, 0.05, 0.00},
		{0.15, 0.20, 0.10, 0.25, 0.15, 0.10, 0.05, 0.00},
		{0.10, 0.15, 0.20, 0.05, 0.30, 0.15, 0.05, 0.00},
		{0.25, 0.10, 0.15, 0.10, 0.05, 0.25, 0.05, 0.05},
		{0.15, 0.25, 0.15, 0.10, 0.20, 0.05, 0.10, 0.00},
		{0.30, 0.15, 0.05, 0.10, 0.15, 0.15, 0.05, 0.05},
		{0.35, 0.20, 0.15, 0.05, 0.15, 0.05, 0.05, 0.00},
	},
	{GenreRock, MoodEnergetic}: {
		{0.05, 0.10, 0.15, 0.05, 0.35, 0.05, 0.15, 0.10},
		{0.15, 0.05, 0.20, 0.15, 0.25, 0.10, 0.10, 0.00},
		{0.10, 0.15, 0.05, 0.10, 0.30, 0.15, 0.15, 0.00},
		{0.05, 0.20, 0.25, 0.05, 0.20, 0.15, 0.10, 0.00},
		{0.25, 0.05, 0.15, 0.10, 0.05, 0.15, 0.15, 0.10},
		{0.10, 0.15, 0.20, 0.15, 0.20, 0.05, 0.15, 0.00},
		{0.35, 0.10, 0.10, 0.05, 0.20, 0.10, 0.05, 0.05},
		{0.40, 0.15, 0.10, 0.05, 0.20, 0.05, 0.05, 0.00},
	},
}

// defaultMatrix serves every (genre, mood) pair without a table of its own.
var defaultMatrix = [8][8]float64{
	{0.10, 0.15, 0.20, 0.10, 0.20, 0.10, 0.05, 0.10},
	{0.20, 0.05, 0.25, 0.15, 0.15, 0.15, 0.05, 0.00},
	{0.15, 0.15, 0.05, 0.20, 0.25, 0.15, 0.05, 0.00},
	{0.10, 0.15, 0.20, 0.05, 0.30, 0.15, 0.05, 0.00},
	{0.25, 0.05, 0.15, 0.15, 0.05, 0.20, 0.10, 0.05},
	{0.15, 0.20, 0.15, 0.15, 0.20, 0.05, 0.10, 0.00},
	{0.35, 0.10, 0.05, 0.10, 0.15, 0.15, 0.05, 0.05},
	{0.40, 0.15, 0.15, 0.05, 0.15, 0.05, 0.05, 0.00},
}

// moodFallbackOrder fixes the search order when a genre has matrices but none
// for the requested mood. Map iteration order would not be reproducible.
var moodFallbackOrder = [...]Mood{MoodHappy, MoodSad, MoodEnergetic, MoodCalm, MoodNeutral}

// transitionMatrix resolves (genre, mood): exact key first, then any matrix
// of the same genre, then the default.
func transitionMatrix(genre Genre, mood Mood) [8][8]float64 {
	if m, ok := transitionMatrices[matrixKey{genre, mood}]; ok {
		return m
	}
	for _, alt := range moodFallbackOrder {
		if m, ok := transitionMatrices[matrixKey{genre, alt}]; ok {
			return m
		}
	}
	return defaultMatrix
}

// simpleBoostIdx are the degrees Simple concentrates probability on: tonic,
// third, fifth and octave.
var simpleBoostIdx = [...]int{0, 2, 4, 7}

// adjustForComplexity returns a transformed copy. Simple moves up to 0.1 of
// mass onto each boost degree and takes it proportionally from the rest;
// Complex blends every row toward uniform; Intermediate is identity.
func adjustForComplexity(m [8][8]float64, c Complexity) [8][8]float64 {
	switch c {
	case ComplexitySimple:
		var boosted [8]bool
		for _, j := range simpleBoostIdx {
			boosted[j] = true
		}
		for i := range m {
			increase := 0.0
			for _, j := range simpleBoostIdx {
				inc := math.Min(0.1, 1.0-m[i][j])
				m[i][j] += inc
				increase += inc
			}
			if increase > 0 {
				other := 0.0
				for j := range m[i] {
					if !boosted[j] {
						other += m[i][j]
					}
				}
				if other > 0 {
					for j := range m[i] {
						if !boosted[j] {
							m[i][j] -= m[i][j] / other * increase
						}
					}
				}
			}
			m[i] = normalizeRow(m[i])
		}
	case ComplexityComplex:
		for i := range m {
			for j := range m[i] {
				m[i][j] = 0.7*m[i][j] + 0.3/8
			}
			m[i] = normalizeRow(m[i])
		}
	}
	return m
}

// adjustForTempo reweights a copy toward leaps of three or more degrees
// (Fast) or steps of up to two (Slow). Medium is identity.
func adjustForTempo(m [8][8]float64, t Tempo) [8][8]float64 {
	switch t {
	case TempoFast:
		for i := range m {
			for j := range m[i] {
				if d := i - j; d >= 3 || d <= -3 {
					m[i][j] *= 1.5
				}
			}
			m[i] = normalizeRow(m[i])
		}
	case TempoSlow:
		for i := range m {
			for j := range m[i] {
				if d := i - j; d <= 2 && d >= -2 {
					m[i][j] *= 1.5
				}
			}
			m[i] = normalizeRow(m[i])
		}
	}
	return m
}

func normalizeRow(row [8]float64) [8]float64 {
	var sum float64
	for _, v := range row {
		sum += v
	}
	if sum == 0 {
		return row
	}
	for j := range row {
		row[j] /= sum
	}
	return row
}

// sampleRow draws the next degree by inverse CDF over one uniform draw.
// Negative entries (possible after the Simple redistribution) are clipped
// out; a row left with no mass becomes uniform.
func sampleRow(row [8]float64, u float64) int {
	var total float64
	for j, v := range row {
		if v < 0 {
			row[j] = 0
			continue
		}
		total += v
	}
	if total <= 0 {
		for j := range row {
			row[j] = 1.0 / 8
		}
		total = 1.0
	}
	cum := 0.0
	for j, v := range row {
		cum += v / total
		if u < cum {
			return j
		}
	}
	return len(row) - 1
}

// stepsPerBarTable fixes how many melody notes the sampler emits per bar.
var stepsPerBarTable = map[Tempo]map[Complexity]int{
	TempoSlow:   {ComplexitySimple: 2, ComplexityIntermediate: 4, ComplexityComplex: 8},
	TempoMedium: {ComplexitySimple: 4, ComplexityIntermediate: 8, ComplexityComplex: 12},
	TempoFast:   {ComplexitySimple: 8, ComplexityIntermediate: 12, ComplexityComplex: 16},
}

func stepsPerBar(t Tempo, c Complexity) int {
	return stepsPerBarTable[t][c]
}

// noteDurations lists melody note lengths in bar fractions. Medium Simple is
// a fixed quarter bar; everything else is drawn per note.
var noteDurations = map[Tempo]map[Complexity][]float64{
	TempoSlow: {
		ComplexitySimple:       {0.5, 0.25},
		ComplexityIntermediate: {0.25, 0.5},
		ComplexityComplex:      {0.125, 0.25, 0.5},
	},
	TempoMedium: {
		ComplexitySimple:       {0.25},
		ComplexityIntermediate: {0.125, 0.25},
		ComplexityComplex:      {0.0625, 0.125, 0.25},
	},
	TempoFast: {
		ComplexitySimple:       {0.125, 0.25},
		ComplexityIntermediate: {0.0625, 0.125, 0.25},
		ComplexityComplex:      {0.0625, 0.125},
	},
}

// generateMelody runs the order-1 Markov walk. The walk starts on the tonic
// and emits exactly numBars*stepsPerBar notes with running start times.
func generateMelody(scale theory.Scale, p Params, ch *chooser) []models.NoteEvent {
	matrix := transitionMatrix(p.Genre, p.Mood)
	matrix = adjustForComplexity(matrix, p.Complexity)
	matrix = adjustForTempo(matrix, p.Tempo)

	durations := noteDurations[p.Tempo][p.Complexity]
	total := p.Length.Bars() * stepsPerBar(p.Tempo, p.Complexity)

	melody := make([]models.NoteEvent, 0, total)
	current := 0
	start := 0.0
	for n := 0; n < total; n++ {
		next := sampleRow(matrix[current], ch.float())
		durBeats := ch.duration(durations) * beatsPerBar
		melody = append(melody, models.NoteEvent{
			MidiNoteNumber: scale.DegreeMidi(next, melodyOctave),
			Velocity:       baseVelocity,
			StartBeats:     start,
			DurationBeats:  durBeats,
		})
		start += durBeats
		current = next
	}
	return melody
}
