package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// encSuffix marks an encrypted env file.
const encSuffix = ".enc"

// resolveEnvFiles takes user-provided paths/globs and returns matching
// files. encrypted=false finds plaintext env files, encrypted=true finds
// .enc files. With no patterns the root directory is scanned.
func resolveEnvFiles(patterns []string, root string, encrypted bool) ([]string, error) {
	if len(patterns) == 0 {
		return findFilesInDir(root, encrypted)
	}

	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, root, encrypted)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no matching files found")
	}
	return files, nil
}

func resolvePattern(pattern, root string, encrypted bool) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(root, pattern)
	}

	// A directory is scanned recursively.
	if info, err := os.Stat(absPattern); err == nil && info.IsDir() {
		return findFilesInDir(absPattern, encrypted)
	}

	if strings.ContainsAny(pattern, "*?[") {
		return expandGlob(absPattern, encrypted)
	}

	// Literal file path.
	if _, err := os.Stat(absPattern); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", pattern)
	}
	if encrypted && !isEncFile(absPattern) {
		return nil, fmt.Errorf("file is not an encrypted env file: %s", pattern)
	}
	if !encrypted && !isEnvFile(absPattern) {
		return nil, fmt.Errorf("file is not an env file: %s", pattern)
	}
	return []string{absPattern}, nil
}

func expandGlob(absPattern string, encrypted bool) ([]string, error) {
	// doublestar for ** support.
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", absPattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if encrypted && isEncFile(m) {
			filtered = append(filtered, m)
		} else if !encrypted && isEnvFile(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func findFilesInDir(dir string, encrypted bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Never descend into version-control metadata.
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if encrypted && isEncFile(path) {
			files = append(files, path)
		} else if !encrypted && isEnvFile(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// isEnvFile reports whether path looks like a plaintext env file: the base
// name contains ".env" and does not carry the encrypted suffix.
func isEnvFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && !strings.HasSuffix(base, encSuffix)
}

// isEncFile reports whether path is an encrypted env file by name.
func isEncFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && strings.HasSuffix(base, encSuffix)
}
