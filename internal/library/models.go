package library

import (
	"time"

	"ledproj/internal/project"
)

// Entry is one cataloged pattern project.
type Entry struct {
	ID         string
	Name       string
	Path       string
	Width      int
	Height     int
	FrameCount int
	LayoutType string
	Tags       []string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NewEntry summarizes a loaded project for the catalog.
func NewEntry(path string, proj *project.Project) Entry {
	entry := Entry{
		ID:         proj.Pattern.ID,
		Name:       proj.Metadata.Name,
		Path:       path,
		Width:      proj.Pattern.Metadata.Width,
		Height:     proj.Pattern.Metadata.Height,
		FrameCount: proj.Pattern.FrameCount(),
		LayoutType: string(proj.Pattern.Metadata.LayoutType),
		Tags:       proj.Metadata.Tags,
		CreatedAt:  proj.Metadata.CreatedAt,
		ModifiedAt: proj.Metadata.ModifiedAt,
	}
	if entry.Name == "" {
		entry.Name = proj.Pattern.Name
	}
	if entry.LayoutType == "" {
		entry.LayoutType = "rectangular"
	}
	return entry
}
