package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ledproj/internal/convert"
	"ledproj/internal/fileutil"
	"ledproj/internal/logging"
	"ledproj/internal/mapping"
	"ledproj/internal/pattern"
	"ledproj/internal/schema"
)

// Project pairs a pattern with its container metadata.
type Project struct {
	Metadata *Metadata
	Pattern  *pattern.Pattern
}

// New wraps a pattern in a fresh project container.
func New(name string, p *pattern.Pattern) *Project {
	if name == "" && p != nil {
		name = p.Name
	}
	return &Project{Metadata: NewMetadata(name), Pattern: p}
}

// MappingMaintainer validates and regenerates LED mapping tables during
// post-load repair.
type MappingMaintainer interface {
	ValidateTable(meta *pattern.Metadata) error
	EnsureTable(meta *pattern.Metadata) bool
}

// ShapeInitializer backfills irregular-shape state during post-load repair.
type ShapeInitializer interface {
	EnsureActiveCells(meta *pattern.Metadata)
}

type defaultMapper struct{}

func (defaultMapper) ValidateTable(meta *pattern.Metadata) error {
	return mapping.ValidateTable(meta)
}

func (defaultMapper) EnsureTable(meta *pattern.Metadata) bool {
	return mapping.EnsureTable(meta)
}

type defaultShapes struct{}

func (defaultShapes) EnsureActiveCells(meta *pattern.Metadata) {
	mapping.EnsureActiveCells(meta)
}

// Store saves and loads .ledproj files.
type Store struct {
	logger *slog.Logger
	useRLE bool
	mapper MappingMaintainer
	shapes ShapeInitializer
}

// NewStore returns a store that compresses pixel payloads when useRLE is
// set. A nil logger disables logging.
func NewStore(logger *slog.Logger, useRLE bool) *Store {
	return &Store{
		logger: logging.NewComponentLogger(logger, "project"),
		useRLE: useRLE,
		mapper: defaultMapper{},
		shapes: defaultShapes{},
	}
}

type containerDoc struct {
	ProjectVersion string         `json:"project_version"`
	SchemaVersion  string         `json:"schema_version"`
	Metadata       *Metadata      `json:"metadata"`
	Pattern        map[string]any `json:"pattern"`
}

// Save writes the project to path atomically and returns the path actually
// written, with the .ledproj extension enforced. The payload goes to a
// sibling temp file first and is renamed into place, so a failed save never
// clobbers an existing project.
func (s *Store) Save(path string, proj *Project) (string, error) {
	if proj == nil || proj.Pattern == nil {
		return "", errors.New("project has no pattern")
	}
	if !strings.HasSuffix(path, FileExtension) {
		path += FileExtension
	}

	doc, err := convert.ToDocument(proj.Pattern, s.useRLE)
	if err != nil {
		return "", fmt.Errorf("convert pattern: %w", err)
	}

	meta := proj.Metadata
	if meta == nil {
		meta = NewMetadata(proj.Pattern.Name)
		proj.Metadata = meta
	}
	meta.ProjectVersion = CurrentVersion
	meta.Touch()

	payload, err := json.MarshalIndent(containerDoc{
		ProjectVersion: CurrentVersion,
		SchemaVersion:  schema.Version,
		Metadata:       meta,
		Pattern:        doc,
	}, "", "  ")
	if err != nil {
		return "", ioError("encode", path, err)
	}

	if err := fileutil.WriteAtomic(path, payload, 0o644); err != nil {
		return "", ioError("write", path, err)
	}

	s.logger.Info("project saved",
		logging.String("path", path),
		logging.Int("frames", proj.Pattern.FrameCount()),
		logging.Bool("rle", s.useRLE))
	return path, nil
}

// Load reads a project file, migrating the container and the embedded
// pattern document to the current versions when needed. Geometry repair
// after load never fails the call; problems are logged and the project is
// returned as-is.
func (s *Store) Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read", path, err)
	}

	var container map[string]any
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, ioError("parse", path, err)
	}

	if NeedsContainerMigration(container) {
		from, _ := ContainerVersion(container)
		container, err = MigrateContainer(container)
		if err != nil {
			return nil, err
		}
		s.logger.Info("project container migrated",
			logging.String("path", path),
			logging.String("from", versionLabel(from)),
			logging.String("to", CurrentVersion))
	}

	patternDoc, ok := objectField(container, "pattern")
	if !ok {
		return nil, ioError("parse", path, errors.New("missing pattern block"))
	}

	if schema.NeedsMigration(patternDoc) {
		from, _ := schema.DocVersion(patternDoc)
		patternDoc, err = schema.Migrate(patternDoc, "")
		if err != nil {
			return nil, err
		}
		s.logger.Info("pattern document migrated",
			logging.String("path", path),
			logging.String("from", versionLabel(from)),
			logging.String("to", schema.Version))
	}

	p, err := convert.FromDocument(patternDoc)
	if err != nil {
		return nil, err
	}

	meta, err := decodeMetadata(container["metadata"])
	if err != nil {
		return nil, ioError("parse", path, err)
	}

	s.repair(path, &p.Metadata)
	return &Project{Metadata: meta, Pattern: p}, nil
}

// repair fixes geometry state that can go stale between saves. Failures are
// logged and skipped; a pattern with a broken mapping table still loads.
func (s *Store) repair(path string, meta *pattern.Metadata) {
	layout := meta.LayoutType
	if layout != "" && layout != pattern.LayoutRectangular && layout != pattern.LayoutIrregular {
		if err := s.mapper.ValidateTable(meta); err != nil {
			if s.mapper.EnsureTable(meta) {
				s.logger.Info("mapping table regenerated",
					logging.String("path", path),
					logging.String("layout", string(layout)))
			} else {
				s.logger.Warn("mapping table invalid and could not be regenerated",
					logging.String("path", path),
					logging.String("layout", string(layout)),
					logging.Error(err))
			}
		}
	}

	if meta.IrregularShapeEnabled {
		s.shapes.EnsureActiveCells(meta)

		if meta.BackgroundImagePath != "" {
			if _, err := os.Stat(meta.BackgroundImagePath); err != nil {
				s.logger.Warn("background image missing, reference cleared",
					logging.String("path", path),
					logging.String("image", meta.BackgroundImagePath))
				meta.BackgroundImagePath = ""
			}
		}
	}
}

func decodeMetadata(v any) (*Metadata, error) {
	meta := NewMetadata("")
	obj, ok := v.(map[string]any)
	if !ok {
		return meta, nil
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("metadata block: %w", err)
	}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, fmt.Errorf("metadata block: %w", err)
	}
	meta.ProjectVersion = CurrentVersion
	return meta, nil
}

func versionLabel(v string) string {
	if v == "" {
		return "legacy"
	}
	return v
}
