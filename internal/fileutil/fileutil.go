package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a regular file discovered under a scanned root.
type Entry struct {
	Path    string
	RelPath string
}

// HasExt reports whether path carries one of exts (lowercase, without dot).
func HasExt(path string, exts map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := exts[ext]
	return ok
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListFiles walks root recursively and returns the regular files accepted by
// match, ordered lexicographically by slash-separated relative path. Any
// directory inside exclude is not descended into.
func ListFiles(root string, match func(string) bool, exclude string) ([]Entry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var excludeAbs string
	if exclude != "" {
		if abs, absErr := filepath.Abs(exclude); absErr == nil {
			clean := filepath.Clean(abs)
			if clean != filepath.Clean(absRoot) && IsWithin(clean, absRoot) {
				excludeAbs = clean
			}
		}
	}

	var entries []Entry
	err = fs.WalkDir(os.DirFS(absRoot), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if excludeAbs != "" && path != "." && IsWithin(filepath.Join(absRoot, path), excludeAbs) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if match != nil && !match(path) {
			return nil
		}
		entries = append(entries, Entry{
			Path:    filepath.Join(absRoot, filepath.FromSlash(path)),
			RelPath: filepath.FromSlash(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir orders per directory, which puts "a/x" before "a-b"; sort on the
	// full relative path instead.
	sort.Slice(entries, func(i, j int) bool {
		return filepath.ToSlash(entries[i].RelPath) < filepath.ToSlash(entries[j].RelPath)
	})
	return entries, nil
}

// ReplaceFile moves tmpPath over destPath, removing destPath first on
// platforms where rename does not overwrite.
func ReplaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// TempSibling reserves an empty temporary file next to destPath and returns
// its name. The caller owns removal.
func TempSibling(destPath, pattern string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), pattern)
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// SamePath reports whether a and b name the same location after cleaning
// and making both absolute.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// IsWithin reports whether path is root or lies below it.
func IsWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteAtomic reserves a temp file next to dest, lets write fill it and
// renames it over dest with 0644 permissions. dest is left untouched and
// the temp file removed when write fails.
func WriteAtomic(dest, pattern string, write func(tmp string) error) error {
	tmp, err := TempSibling(dest, pattern)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	if err := ReplaceFile(tmp, dest); err != nil {
		return err
	}
	committed = true
	return nil
}
