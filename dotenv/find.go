package dotenv

import (
	"os"
	"path/filepath"
)

// Find locates files called name along searchPath. Each directory in the
// path contributes at most one match: the file in the directory itself, or,
// when parents is true, the first one found walking up towards the
// filesystem root. Unreadable candidates are skipped. The returned paths
// are in search-path order.
func Find(name string, searchPath []string, parents bool) []string {
	var found []string
	for _, dir := range searchPath {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		for {
			candidate := filepath.Join(abs, name)
			if readable(candidate) {
				found = append(found, candidate)
				break
			}
			if !parents {
				break
			}
			parent := filepath.Dir(abs)
			if parent == abs {
				break
			}
			abs = parent
		}
	}
	return found
}

// readable reports whether path is a regular file we can open.
func readable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
