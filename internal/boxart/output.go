package boxart

import (
	"errors"
	"path/filepath"

	"retroconv/internal/fileutil"
)

// errSameAsSource marks a destination that would overwrite its own source.
var errSameAsSource = errors.New("destination is the source file")

// OutputResolver maps a source file to its destination path.
type OutputResolver struct {
	Suffix SuffixStyle
}

// Resolve applies, in order: unset target (next to the source, suffix
// style applies), directory target (mirrors RelPath when batch is set),
// explicit file target (single input only, must be .png).
func (r OutputResolver) Resolve(entry fileutil.Entry, target OutputTarget, batch bool) (string, error) {
	stem := fileutil.Stem(entry.Path)

	var dest string
	switch target.Kind {
	case OutputUnset:
		dest = filepath.Join(filepath.Dir(entry.Path), r.Suffix.FileName(stem))
	case OutputDirectory:
		sub := ""
		if batch {
			sub = filepath.Dir(entry.RelPath)
		}
		dest = filepath.Join(target.Path, sub, stem+".png")
	case OutputFile:
		if batch {
			return "", &AmbiguousOutputError{Output: target.Path}
		}
		if !hasPNGExt(target.Path) {
			return "", &InvalidOutputError{Path: target.Path}
		}
		dest = target.Path
	default:
		return "", &ConfigError{Field: "output", Msg: "unknown output target"}
	}

	if fileutil.SamePath(dest, entry.Path) {
		return dest, errSameAsSource
	}
	return dest, nil
}

// LooksLikeOutput reports whether a missing input token is probably an
// output path passed positionally.
func LooksLikeOutput(path string) bool {
	return hasPNGExt(path) && !fileutil.Exists(path)
}
