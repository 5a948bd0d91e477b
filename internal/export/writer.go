package export

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/halmert/pagemason/internal/progress"
)

// WriteDir writes the bundle's three files into dir, creating it when
// needed.
func WriteDir(bundle Bundle, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	for _, f := range bundle.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return nil
}

// CopyAssets mirrors the files under srcDir into dstDir, honoring
// include/exclude glob patterns. Returns the number of files copied.
func CopyAssets(srcDir, dstDir string, include, exclude []string, reporter progress.Reporter) (int, error) {
	var paths []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, include, true) || matchesAny(rel, exclude, false) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking assets dir: %w", err)
	}

	if reporter != nil {
		reporter.Start(len(paths))
		defer reporter.Finish()
	}

	for i, rel := range paths {
		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(dstDir, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return i, fmt.Errorf("copying %s: %w", rel, err)
		}
		if reporter != nil {
			reporter.Update(i+1, rel)
		}
	}
	return len(paths), nil
}

// matchesAny reports whether rel matches any of the glob patterns.
// emptyMeans is the result for an empty pattern list.
func matchesAny(rel string, patterns []string, emptyMeans bool) bool {
	if len(patterns) == 0 {
		return emptyMeans
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
