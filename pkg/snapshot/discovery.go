package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverConfig holds glob patterns for batch scans, relative to the root.
type DiscoverConfig struct {
	Include []string
	Exclude []string
}

// DefaultDiscoverConfig matches markup files outside dependency and build output.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		Include: []string{"**/*.html", "**/*.htm"},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			".next/**",
		},
	}
}

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
func DiscoverFiles(rootDir string, cfg DiscoverConfig) ([]string, error) {
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range cfg.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(cfg.Include) > 0 && !matchAny(cfg.Include, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.PathMatch(pattern, relPath); m {
			return true
		}
	}
	return false
}
