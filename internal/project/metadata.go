package project

import "time"

// File format constants.
const (
	FileExtension   = ".ledproj"
	CurrentVersion  = "1.1"
	PreviousVersion = "1.0"
)

// Settings holds per-project editor preferences. They travel with the file
// so a project opens the way it was left.
type Settings struct {
	AutoSave                bool    `json:"auto_save"`
	AutoSaveIntervalSeconds int     `json:"auto_save_interval_seconds"`
	UndoHistoryDepth        int     `json:"undo_history_depth"`
	DefaultZoom             int     `json:"default_zoom"`
	GridEnabled             bool    `json:"grid_enabled"`
	SnapToGrid              bool    `json:"snap_to_grid"`
	ShowFrameNumbers        bool    `json:"show_frame_numbers"`
	DefaultFPS              float64 `json:"default_fps"`
	DefaultColorOrder       string  `json:"default_color_order"`
}

// DefaultSettings returns the settings block stamped into new and migrated
// projects.
func DefaultSettings() Settings {
	return Settings{
		AutoSave:                true,
		AutoSaveIntervalSeconds: 300,
		UndoHistoryDepth:        50,
		DefaultZoom:             100,
		GridEnabled:             true,
		SnapToGrid:              false,
		ShowFrameNumbers:        true,
		DefaultFPS:              24.0,
		DefaultColorOrder:       "RGB",
	}
}

// FramePreset names a reusable frame duration.
type FramePreset struct {
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
}

// Metadata is the project-level block of a .ledproj container.
type Metadata struct {
	ProjectVersion string         `json:"project_version"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Author         string         `json:"author"`
	CreatedAt      time.Time      `json:"created_at"`
	ModifiedAt     time.Time      `json:"modified_at"`
	Tags           []string       `json:"tags"`
	Category       string         `json:"category,omitempty"`
	License        string         `json:"license,omitempty"`
	Settings       Settings       `json:"settings"`
	Custom         map[string]any `json:"custom,omitempty"`
	FramePresets   []FramePreset  `json:"frame_presets,omitempty"`
}

// NewMetadata returns project metadata with defaults and fresh timestamps.
func NewMetadata(name string) *Metadata {
	now := time.Now().UTC()
	if name == "" {
		name = "Untitled Project"
	}
	return &Metadata{
		ProjectVersion: CurrentVersion,
		Name:           name,
		CreatedAt:      now,
		ModifiedAt:     now,
		Tags:           []string{},
		Settings:       DefaultSettings(),
	}
}

// Touch refreshes the modified timestamp, backfilling creation time for
// metadata that never had one.
func (m *Metadata) Touch() {
	now := time.Now().UTC()
	m.ModifiedAt = now
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
}
