// FileCache provides read access to style guide documents and snapshot
// inputs through memory-mapped files.
//
// **Lifecycle:**
//   - Lazy loading: files are mapped on first Read
//   - Kept mapped until Invalidate(path) or Close()
//   - Read stats the path first and remaps when size, mtime or identity
//     changed, so edits and rename-over saves are picked up without a watcher
//
// **Safety Features:**
//   - Optional MaxFiles limit (prevents file descriptor exhaustion)
//   - Graceful fallback to os.ReadFile if mmap fails
//   - Thread-safe with sync.RWMutex (parallel reads, exclusive loads)
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache reads files through memory maps.
//
// Thread-safe: Multiple goroutines can call methods concurrently.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// Read returns a copy of the whole file content.
	Read(filePath string) (string, error)

	// Invalidate unmaps filePath so the next Get reloads it from disk.
	// Read does this itself when the file changed on disk.
	Invalidate(filePath string)

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases resources.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files to keep mapped. 0 means unlimited.
	MaxFiles int

	// EnableMetrics determines whether to track cache statistics.
	EnableMetrics bool

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns defaults sized for a handful of guide
// documents and a batch of snapshot inputs.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      1024,
		EnableMetrics: true,
	}
}

// MappedFile represents a memory-mapped file.
type MappedFile struct {
	// Path is the file path as passed to Get.
	Path string

	// Data is the mapped region. Nil for empty files. Invalid after the
	// file is invalidated or the cache is closed.
	Data mmap.MMap

	// File is the underlying descriptor. Nil for fallback entries.
	File *os.File

	// Size is the file size in bytes.
	Size int64

	// MappedAt is when this file was first mapped.
	MappedAt time.Time

	// info is the stat taken when the file was mapped.
	info os.FileInfo
}

// matches reports whether info describes the file that was mapped.
func (mf *MappedFile) matches(info os.FileInfo) bool {
	if mf.info == nil {
		return false
	}
	return info.Size() == mf.info.Size() &&
		info.ModTime().Equal(mf.info.ModTime()) &&
		os.SameFile(info, mf.info)
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	Invalidations int64
}

// ErrCacheFull is returned by Get when MaxFiles is reached.
var ErrCacheFull = errors.New("file cache limit reached")

// NewFileCache creates a new FileCache with the given config.
//
// If config is nil, uses DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCacheImpl{
		config: config,
		logger: logger,
		cache:  make(map[string]*MappedFile),
	}
}

// fileCacheImpl guards cache with mu and stats with statsMu so metric
// updates never contend with lookups.
type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	cache map[string]*MappedFile
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

// Get returns the mapped file or loads it on first access.
func (fc *fileCacheImpl) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	if mf, ok := fc.cache[filePath]; ok {
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited for Lock.
	if mf, ok := fc.cache[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
	if fc.config.MaxFiles > 0 && len(fc.cache) >= fc.config.MaxFiles {
		return nil, fmt.Errorf("%w: %d files", ErrCacheFull, fc.config.MaxFiles)
	}

	mf, err := fc.loadFile(filePath)
	if err != nil {
		return nil, err
	}
	fc.cache[filePath] = mf
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })
	return mf, nil
}

// loadFile opens and maps a file, falling back to os.ReadFile if mmap fails.
//
// Must be called while holding mu.Lock.
func (fc *fileCacheImpl) loadFile(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	// Zero bytes cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &MappedFile{Path: filePath, MappedAt: time.Now(), info: stat}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "size", stat.Size(), "error", err)
		file.Close()

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })
		return &MappedFile{Path: filePath, Data: mmap.MMap(raw), Size: int64(len(raw)), MappedAt: time.Now(), info: stat}, nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
		info:     stat,
	}, nil
}

// Read returns the file content as a string. The bytes are copied out of the
// mapping under the read lock, so the result stays valid after invalidation
// and no concurrent Invalidate can unmap them mid-copy.
func (fc *fileCacheImpl) Read(filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if fc.stale(filePath, info) {
		fc.logger.Debug("file changed on disk, remapping", "path", filePath)
		fc.Invalidate(filePath)
	}
	if _, err := fc.Get(filePath); err != nil {
		return "", err
	}

	fc.mu.RLock()
	defer fc.mu.RUnlock()
	mf, ok := fc.cache[filePath]
	if !ok {
		// Invalidated between Get and RLock.
		return readFile(filePath)
	}
	content, err := copyMapped(mf.Data)
	if err != nil {
		fc.logger.Warn("mapped file changed during read, reading directly", "path", filePath, "error", err)
		return readFile(filePath)
	}
	return content, nil
}

// stale reports whether the cached mapping of filePath no longer matches info.
func (fc *fileCacheImpl) stale(filePath string, info os.FileInfo) bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	mf, ok := fc.cache[filePath]
	return ok && !mf.matches(info)
}

// copyMapped copies data out of a mapping. A file truncated by another
// process after the stat check faults on access; the fault is turned into
// an error instead of killing the process.
func copyMapped(data []byte) (content string, err error) {
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			err = fmt.Errorf("fault reading mapped file: %v", r)
		}
	}()
	return string(data), nil
}

func readFile(filePath string) (string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return string(raw), nil
}

// Invalidate drops and unmaps one file.
func (fc *fileCacheImpl) Invalidate(filePath string) {
	fc.mu.Lock()
	mf, ok := fc.cache[filePath]
	delete(fc.cache, filePath)
	fc.mu.Unlock()

	if !ok {
		return
	}
	if err := release(mf); err != nil {
		fc.logger.Warn("failed to release file", "path", filePath, "error", err)
	}
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
}

// Size returns number of currently cached files.
func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.cache)
}

// Stats returns current cache metrics.
func (fc *fileCacheImpl) Stats() FileCacheStats {
	cached := fc.Size()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	return stats
}

// Close unmaps all files and releases resources.
func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if err := release(mf); err != nil {
			fc.logger.Warn("failed to release file", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%q: %w", path, err))
		}
	}
	fc.cache = make(map[string]*MappedFile)

	fc.logger.Debug("FileCache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"cache_misses", fc.stats.CacheMisses)

	return errors.Join(errs...)
}

// release unmaps a mapped entry. Fallback entries have no descriptor and
// their data is plain heap memory.
func release(mf *MappedFile) error {
	if mf.File == nil {
		return nil
	}
	var errs []error
	if mf.Data != nil {
		if err := mf.Data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
	}
	if err := mf.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
	}
	return errors.Join(errs...)
}

func (fc *fileCacheImpl) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
