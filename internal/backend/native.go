package backend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	// Decoders for every extension in the boxart allow-list except HEIC.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"retroconv/internal/boxart"
	"retroconv/pkg/imgutil"
)

// ErrUnsupportedSource is returned for inputs the native decoder cannot read.
var ErrUnsupportedSource = errors.New("unsupported source format")

// Native renders in-process with imaging.
type Native struct{}

func (Native) Name() string { return NameNative }

func (Native) Convert(ctx context.Context, job boxart.ConversionJob, plan boxart.TransformPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := Decode(job.Source)
	if err != nil {
		return err
	}
	out, err := Render(src, plan)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomically(job.Destination, func(tmp string) error {
		return writePNGFile(tmp, out)
	})
}

// Decode reads the first frame of path with EXIF orientation applied.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kind, err := checkKind(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return orient(img, readOrientation(f)), nil
}

// SourceDimensions reports the upright size of path without decoding pixels.
func SourceDimensions(path string) (boxart.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return boxart.Dimensions{}, err
	}
	defer f.Close()

	if _, err := checkKind(f); err != nil {
		return boxart.Dimensions{}, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return boxart.Dimensions{}, err
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return boxart.Dimensions{}, err
	}
	dims := boxart.Dimensions{Width: cfg.Width, Height: cfg.Height}
	if swapsAxes(readOrientation(f)) {
		dims.Width, dims.Height = dims.Height, dims.Width
	}
	return dims, nil
}

func checkKind(f *os.File) (imgutil.Kind, error) {
	kind, err := imgutil.SniffReader(f)
	if err != nil {
		return imgutil.KindUnknown, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	switch kind {
	case imgutil.KindUnknown:
		return kind, fmt.Errorf("%w: unrecognised header", ErrUnsupportedSource)
	case imgutil.KindHEIC:
		return kind, fmt.Errorf("%w: heic needs the magick backend", ErrUnsupportedSource)
	}
	return kind, nil
}

// Render applies plan to src and returns a canvas-sized NRGBA image.
func Render(src image.Image, plan boxart.TransformPlan) (*image.NRGBA, error) {
	b := src.Bounds()
	layout, err := plan.Layout(boxart.Dimensions{Width: b.Dx(), Height: b.Dy()})
	if err != nil {
		return nil, err
	}
	w, h := plan.Canvas.Width, plan.Canvas.Height

	var (
		fitted *image.NRGBA
		at     image.Point
	)
	switch plan.Mode {
	case boxart.ModeStretch:
		fitted = imaging.Resize(src, w, h, imaging.Lanczos)
	case boxart.ModeCrop:
		scaled := imaging.Resize(src, layout.Scaled.Width, layout.Scaled.Height, imaging.Lanczos)
		fitted = imaging.Crop(scaled, image.Rect(layout.CropX, layout.CropY, layout.CropX+w, layout.CropY+h))
	default:
		fitted = imaging.Resize(src, layout.Scaled.Width, layout.Scaled.Height, imaging.Lanczos)
		at = image.Pt(layout.OffsetX, layout.OffsetY)
	}

	var bg color.Color = color.NRGBA{}
	if !plan.Background.Transparent {
		bg = plan.Background.Color
	}
	canvas := imaging.New(w, h, bg)
	return imaging.Overlay(canvas, fitted, at, 1.0), nil
}
