package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"retroconv/internal/boxart"
	"retroconv/internal/deps"
	"retroconv/pkg/imgutil"
)

// Magick shells out to ImageMagick. Legacy selects the IM6 "convert" name
// in logs; both versions accept the same argument list.
type Magick struct {
	Binary string
	Legacy bool
}

func (m *Magick) Name() string {
	if m.Legacy {
		return NameConvert
	}
	return NameMagick
}

func (m *Magick) Convert(ctx context.Context, job boxart.ConversionJob, plan boxart.TransformPlan) error {
	return writeAtomically(job.Destination, func(tmp string) error {
		if _, err := deps.Run(ctx, m.Binary, Args(job.Source, tmp, plan)...); err != nil {
			return err
		}
		return finalizePNG(tmp, plan.Canvas)
	})
}

// finalizePNG drops ImageMagick's date and text chunks and checks that the
// result really is an 8-bit RGBA image of the canvas size.
func finalizePNG(path string, canvas boxart.Dimensions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var stripped bytes.Buffer
	if err := imgutil.StripPNG(bytes.NewReader(data), &stripped); err != nil {
		return fmt.Errorf("read magick output: %w", err)
	}
	hdr, err := imgutil.ReadPNGHeader(bytes.NewReader(stripped.Bytes()))
	if err != nil {
		return fmt.Errorf("read magick output: %w", err)
	}
	if hdr.ColorType != imgutil.PNGColorRGBA || hdr.BitDepth != 8 {
		return fmt.Errorf("magick wrote colour type %d at depth %d, want 8-bit RGBA", hdr.ColorType, hdr.BitDepth)
	}
	if hdr.Width != canvas.Width || hdr.Height != canvas.Height {
		return fmt.Errorf("magick wrote %dx%d, want %s", hdr.Width, hdr.Height, canvas)
	}
	return os.WriteFile(path, stripped.Bytes(), 0o644)
}

// Args builds the ImageMagick command line for one conversion. Only the
// first frame of animated or layered sources is used.
func Args(src, dst string, plan boxart.TransformPlan) []string {
	w, h := plan.Canvas.Width, plan.Canvas.Height
	size := fmt.Sprintf("%dx%d", w, h)

	bg := "none"
	if !plan.Background.Transparent {
		bg = plan.Background.Hex()
	}

	args := []string{
		src + "[0]",
		"-auto-orient",
		"-alpha", "set",
		"-background", bg,
	}
	switch plan.Mode {
	case boxart.ModeStretch:
		args = append(args, "-resize", size+"!")
	case boxart.ModeCrop:
		args = append(args, "-resize", size+"^", "-gravity", "center", "-extent", size)
	default:
		args = append(args, "-resize", size, "-gravity", "center", "-extent", size)
	}
	if !plan.Background.Transparent {
		args = append(args, "-flatten")
	}
	return append(args,
		"-define", "png:color-type=6",
		"PNG32:"+dst,
	)
}
