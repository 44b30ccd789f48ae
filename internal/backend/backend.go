// Package backend implements the image converters the boxart runner can
// drive: ImageMagick 7, legacy ImageMagick 6 and an in-process renderer.
package backend

import (
	"strings"

	"retroconv/internal/boxart"
	"retroconv/internal/deps"
	"retroconv/internal/fileutil"
)

const (
	NameAuto    = "auto"
	NameMagick  = "magick"
	NameConvert = "convert"
	NameNative  = "native"
)

// Names lists the accepted --backend values.
func Names() []string {
	return []string{NameAuto, NameMagick, NameConvert, NameNative}
}

// Select resolves a backend preference once at startup. "auto" picks
// magick, then convert; native is only used when asked for by name.
func Select(pref string) (boxart.Converter, error) {
	switch strings.ToLower(strings.TrimSpace(pref)) {
	case "", NameAuto:
		bin, ok := deps.FirstAvailable(NameMagick, NameConvert)
		if !ok {
			return nil, &boxart.BackendMissingError{Tried: []string{NameMagick, NameConvert}}
		}
		return &Magick{Binary: bin, Legacy: bin == NameConvert}, nil
	case NameMagick:
		if _, ok := deps.FirstAvailable(NameMagick); !ok {
			return nil, &boxart.BackendMissingError{Tried: []string{NameMagick}}
		}
		return &Magick{Binary: NameMagick}, nil
	case NameConvert:
		if _, ok := deps.FirstAvailable(NameConvert); !ok {
			return nil, &boxart.BackendMissingError{Tried: []string{NameConvert}}
		}
		return &Magick{Binary: NameConvert, Legacy: true}, nil
	case NameNative:
		return Native{}, nil
	}
	return nil, &boxart.ConfigError{Field: "backend", Value: pref, Msg: "expected one of " + strings.Join(Names(), ", ")}
}

func writeAtomically(dest string, write func(tmp string) error) error {
	return fileutil.WriteAtomic(dest, ".retroconv-*.png", write)
}
