// Package store provides functionality for storing and retrieving application data.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fjacquet/bilanci/internal/fileutils"
	"fjacquet/bilanci/internal/keywords"
	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
)

// DefaultKeywordsFile is looked up when no keyword file is configured.
const DefaultKeywordsFile = "keywords.yaml"

// LastAnalysisFile is the name of the persisted analysis inside the data directory.
const LastAnalysisFile = "last-analysis.json"

// ErrNoAnalysis is returned when nothing has been persisted yet.
var ErrNoAnalysis = errors.New("no analysis stored")

// KeywordStore resolves the keyword tables used by the extractors.
type KeywordStore struct {
	File   string
	logger logging.Logger
}

// NewKeywordStore creates a store for the given keyword file. An empty file
// name means DefaultKeywordsFile in the standard locations.
func NewKeywordStore(file string, logger logging.Logger) *KeywordStore {
	return &KeywordStore{File: file, logger: logging.OrDefault(logger)}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *KeywordStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,                          // Current directory
		filepath.Join("config", filename), // ./config/ directory
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	// Fall back to ~/.config/bilanci/
	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "bilanci", filename)
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// Load returns the keyword tables. When the default file is absent the
// built-in tables are used; an explicitly configured file must exist.
func (s *KeywordStore) Load() (*keywords.Tables, error) {
	filename := s.File
	explicit := filename != ""
	if !explicit {
		filename = DefaultKeywordsFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			s.logger.Debug("No keyword file found, using built-in tables")
			return keywords.Default(), nil
		}
		return nil, fmt.Errorf("keyword file %s not found: %w", filename, err)
	}

	tables, err := keywords.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded keyword tables",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(tables.Strict) + len(tables.Loose)})
	return tables, nil
}

// AnalysisRepository persists the most recent analysis.
type AnalysisRepository interface {
	Save(a *models.Analysis) error
	Last() (*models.Analysis, error)
}

// AnalysisStore keeps the last analysis as JSON in a data directory. Saves
// are serialized so concurrent batch workers never share the temp file.
type AnalysisStore struct {
	Directory string
	logger    logging.Logger
	mu        sync.Mutex
}

// NewAnalysisStore creates a store rooted at dir. An empty dir resolves to
// ~/.bilanci, or the working directory when no home is available.
func NewAnalysisStore(dir string, logger logging.Logger) *AnalysisStore {
	if dir == "" {
		dir = "."
		if homeDir, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(homeDir, ".bilanci")
		}
	}
	return &AnalysisStore{Directory: dir, logger: logging.OrDefault(logger)}
}

// Path returns the file the last analysis is written to.
func (s *AnalysisStore) Path() string {
	return filepath.Join(s.Directory, LastAnalysisFile)
}

// Save replaces the stored analysis with a.
func (s *AnalysisStore) Save(a *models.Analysis) error {
	if a == nil {
		return errors.New("cannot store a nil analysis")
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write through a temp file so a crash never leaves a truncated document.
	tmp := s.Path() + ".tmp"
	if err := fileutils.WriteFile(tmp, data, models.PermissionFile); err != nil {
		return fmt.Errorf("error writing analysis: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("error replacing analysis: %w", err)
	}

	s.logger.Debug("Saved analysis",
		logging.Field{Key: logging.FieldAnalysisID, Value: a.ID.String()},
		logging.Field{Key: logging.FieldOutputFile, Value: s.Path()})
	return nil
}

// Last loads the stored analysis, or ErrNoAnalysis if there is none.
func (s *AnalysisStore) Last() (*models.Analysis, error) {
	if !fileutils.FileExists(s.Path()) {
		return nil, ErrNoAnalysis
	}
	data, err := fileutils.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("error reading analysis: %w", err)
	}

	var a models.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("error parsing analysis %s: %w", s.Path(), err)
	}
	return &a, nil
}
