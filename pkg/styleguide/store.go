package styleguide

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"

	"github.com/gnana997/uilint/pkg/util"
)

// DefaultPath is where a project's guide lives, relative to the project root.
const DefaultPath = ".uilint/styleguide.md"

// SearchPaths lists the guide locations tried by Find, in order.
var SearchPaths = []string{
	DefaultPath,
	"styleguide.md",
	".uilint/style-guide.md",
}

// ErrNotFound is returned when no guide document exists where one was looked for.
var ErrNotFound = errors.New("style guide not found")

// Find returns the first existing guide under projectDir.
func Find(projectDir string) (string, bool) {
	for _, rel := range SearchPaths {
		p := filepath.Join(projectDir, rel)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Document is a loaded guide: its text and the rules parsed from it.
type Document struct {
	Path    string
	Content string
	Guide   *StyleGuide
	Hash    uint64
}

type cachedGuide struct {
	hash  uint64
	guide *StyleGuide
}

// StoreConfig configures a Store.
type StoreConfig struct {
	// MaxCachedGuides bounds the parsed-guide cache. Default: 16.
	MaxCachedGuides int

	// Files reads documents. Default: a new util.FileCache owned by the Store.
	Files util.FileCache

	Logger *slog.Logger
}

// Store loads guide documents and caches their parsed form. A cached guide
// is reused only while the document's xxh3 content hash is unchanged.
//
// Safe for concurrent use.
type Store struct {
	files     util.FileCache
	ownsFiles bool
	guides    *lru.Cache[string, cachedGuide]
	logger    *slog.Logger
}

// NewStore creates a Store.
func NewStore(config StoreConfig) (*Store, error) {
	if config.MaxCachedGuides <= 0 {
		config.MaxCachedGuides = 16
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	guides, err := lru.NewWithEvict(config.MaxCachedGuides, func(path string, _ cachedGuide) {
		logger.Debug("evicting parsed style guide", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create guide cache: %w", err)
	}

	s := &Store{files: config.Files, guides: guides, logger: logger}
	if s.files == nil {
		s.files = util.NewFileCache(&util.FileCacheConfig{MaxFiles: 256, EnableMetrics: true, Logger: logger})
		s.ownsFiles = true
	}
	return s, nil
}

// Load reads and parses the guide at path. A missing file yields ErrNotFound.
func (s *Store) Load(path string) (*Document, error) {
	content, err := s.files.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read style guide: %w", err)
	}

	hash := xxh3.HashString(content)
	if cached, ok := s.guides.Get(path); ok && cached.hash == hash {
		return &Document{Path: path, Content: content, Guide: cached.guide.Clone(), Hash: hash}, nil
	}

	guide := Parse(content)
	s.guides.Add(path, cachedGuide{hash: hash, guide: guide})
	s.logger.Debug("parsed style guide",
		"path", path,
		"colors", len(guide.Colors),
		"typography", len(guide.Typography),
		"spacing", len(guide.Spacing),
		"components", len(guide.Components))

	return &Document{Path: path, Content: content, Guide: guide.Clone(), Hash: hash}, nil
}

// LoadProject finds and loads the guide of the project at dir.
func (s *Store) LoadProject(dir string) (*Document, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, fmt.Errorf("%w in %s (looked for %v)", ErrNotFound, dir, SearchPaths)
	}
	return s.Load(path)
}

// Write stores content at path, creating the parent directory, and drops
// any cached state for path.
func (s *Store) Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create style guide directory: %w", err)
	}
	s.Invalidate(path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write style guide: %w", err)
	}
	return nil
}

// Invalidate drops the cached document and parsed guide for path.
func (s *Store) Invalidate(path string) {
	s.files.Invalidate(path)
	s.guides.Remove(path)
}

// Close releases the file cache when the Store created it.
func (s *Store) Close() error {
	if s.ownsFiles {
		return s.files.Close()
	}
	return nil
}
