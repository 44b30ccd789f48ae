package boxart

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"retroconv/internal/fileutil"
)

// ImageExtensions is the case-insensitive allow-list of source formats.
var ImageExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "bmp": {}, "gif": {}, "tif": {},
	"tiff": {}, "webp": {}, "jfif": {}, "heic": {}, "avif": {},
}

// IsImagePath reports whether path has an allow-listed extension.
func IsImagePath(path string) bool {
	return fileutil.HasExt(path, ImageExtensions)
}

// InputKind is the classification of one input argument.
type InputKind int

const (
	InputFile InputKind = iota
	InputDirectory
	InputNotImage
)

// Input is a classified input argument.
type Input struct {
	Path string
	Kind InputKind
	// Entries lists the image files to process, in processing order. For a
	// single file it holds that file with RelPath set to its base name.
	Entries []fileutil.Entry
}

// Classify inspects path. Directories are expanded recursively; anything
// below exclude is ignored so an output directory nested inside the input
// tree is never read back as input.
func Classify(path string, exclude string) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Input{}, &NotFoundError{Path: path}
		}
		return Input{}, err
	}

	if info.IsDir() {
		entries, err := fileutil.ListFiles(path, IsImagePath, exclude)
		if err != nil {
			return Input{}, err
		}
		return Input{Path: path, Kind: InputDirectory, Entries: entries}, nil
	}

	if !info.Mode().IsRegular() {
		return Input{}, &NotFoundError{Path: path}
	}
	if !IsImagePath(path) {
		return Input{Path: path, Kind: InputNotImage}, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Path:    path,
		Kind:    InputFile,
		Entries: []fileutil.Entry{{Path: abs, RelPath: filepath.Base(abs)}},
	}, nil
}
