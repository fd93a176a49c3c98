package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathAllowlist restricts which local files may be read for upload. The
// generation sidecar shares a volume with the API; only files inside the
// configured media directories are touchable. Paths are canonicalized before
// the prefix check so ".." segments and symlink-style tricks cannot escape.
type PathAllowlist struct {
	dirs []string
}

// NewPathAllowlist canonicalizes the allowed directories. Relative and empty
// entries are rejected outright.
func NewPathAllowlist(dirs []string) (*PathAllowlist, error) {
	cleaned := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if !filepath.IsAbs(d) {
			return nil, fmt.Errorf("media dir %q must be absolute", d)
		}
		cleaned = append(cleaned, filepath.Clean(d))
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("at least one media dir is required")
	}
	return &PathAllowlist{dirs: cleaned}, nil
}

// Check returns the canonical path if it sits inside an allowed directory.
func (a *PathAllowlist) Check(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path %q must be absolute", path)
	}
	canonical := filepath.Clean(path)
	for _, dir := range a.dirs {
		if canonical == dir {
			// The directory itself is not a readable file.
			continue
		}
		if strings.HasPrefix(canonical, dir+string(filepath.Separator)) {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("path %q is outside the allowed media directories", path)
}
