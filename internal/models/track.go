package models

import (
	"time"

	"gorm.io/gorm"
)

// Track records metadata about one rendered audio file. The audio itself
// lives on disk under the output directory; only this row is persisted.
type Track struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TrackID    string `gorm:"uniqueIndex;not null" json:"track_id"` // UUID shared with the file name
	FileName   string `gorm:"not null" json:"file_name"`
	Format     string `gorm:"not null" json:"format"` // "mp3", or "wav" when ffmpeg is unavailable
	Genre      string `gorm:"index" json:"genre"`
	Scale      string `json:"scale"`
	Mood       string `json:"mood"`
	Tempo      string `json:"tempo"`
	Complexity string `json:"complexity"`
	Mode       string `json:"mode"`
	Bars       int    `json:"bars"`
	BPM        int    `json:"bpm"`
	Seed       *int64 `json:"seed,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	RenderMS   int    `json:"render_ms"`
	RequestID  string `gorm:"index" json:"request_id"`
}
