package boxart

import "fmt"

// TransformPlan describes the operations a backend must perform. It is
// computed before any image is decoded and holds no tool-specific flags.
type TransformPlan struct {
	Mode       FitMode
	Canvas     Dimensions
	Background Background
	// ForceAlpha is always set: output is 32-bit RGBA PNG.
	ForceAlpha bool
}

// Layout is the numeric placement of a particular source on the canvas.
type Layout struct {
	// Scaled is the size the source is resampled to.
	Scaled Dimensions
	// OffsetX/OffsetY place the scaled source on the canvas (pad).
	OffsetX int
	OffsetY int
	// CropX/CropY are the top-left of the canvas-sized window cut out of
	// the scaled source (crop).
	CropX int
	CropY int
}

// Plan validates the inputs and builds a TransformPlan.
func Plan(dims Dimensions, mode FitMode, bg Background) (TransformPlan, error) {
	if !dims.Valid() {
		return TransformPlan{}, &ConfigError{Field: "size", Value: dims.String(), Msg: fmt.Sprintf("width and height must be integers from 1 to %d", MaxDimension)}
	}
	switch mode {
	case ModePad, ModeCrop, ModeStretch:
	default:
		return TransformPlan{}, &ConfigError{Field: "mode", Value: mode.String(), Msg: "unknown fit mode"}
	}
	return TransformPlan{Mode: mode, Canvas: dims, Background: bg, ForceAlpha: true}, nil
}

// Layout computes the placement for a source of the given size.
func (p TransformPlan) Layout(src Dimensions) (Layout, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return Layout{}, &ConfigError{Field: "source size", Value: src.String(), Msg: "source image has no pixels"}
	}
	w, h := p.Canvas.Width, p.Canvas.Height

	switch p.Mode {
	case ModeStretch:
		return Layout{Scaled: p.Canvas}, nil

	case ModePad:
		scaled := fitInside(src, p.Canvas)
		return Layout{
			Scaled:  scaled,
			OffsetX: (w - scaled.Width) / 2,
			OffsetY: (h - scaled.Height) / 2,
		}, nil

	case ModeCrop:
		scaled := coverOutside(src, p.Canvas)
		return Layout{
			Scaled: scaled,
			CropX:  (scaled.Width - w) / 2,
			CropY:  (scaled.Height - h) / 2,
		}, nil
	}
	return Layout{}, &ConfigError{Field: "mode", Value: p.Mode.String(), Msg: "unknown fit mode"}
}

// fitInside scales src uniformly to the largest size within target. The
// constraining side matches target exactly.
func fitInside(src, target Dimensions) Dimensions {
	sw, sh := int64(src.Width), int64(src.Height)
	tw, th := int64(target.Width), int64(target.Height)

	// sw/sh >= tw/th: width constrains.
	if sw*th >= sh*tw {
		return Dimensions{Width: target.Width, Height: clamp(roundDiv(sh*tw, sw), 1, target.Height)}
	}
	return Dimensions{Width: clamp(roundDiv(sw*th, sh), 1, target.Width), Height: target.Height}
}

// coverOutside scales src uniformly to the smallest size covering target.
func coverOutside(src, target Dimensions) Dimensions {
	sw, sh := int64(src.Width), int64(src.Height)
	tw, th := int64(target.Width), int64(target.Height)

	// sw/sh >= tw/th: height constrains, width overflows.
	if sw*th >= sh*tw {
		return Dimensions{Width: atLeast(roundDiv(sw*th, sh), target.Width), Height: target.Height}
	}
	return Dimensions{Width: target.Width, Height: atLeast(roundDiv(sh*tw, sw), target.Height)}
}

func roundDiv(num, den int64) int {
	return int((2*num + den) / (2 * den))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
