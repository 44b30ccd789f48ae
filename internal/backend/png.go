package backend

import (
	"image"
	"image/png"
	"io"
	"os"
)

// alphaForced hides the opacity of an image so the PNG encoder keeps the
// alpha channel.
type alphaForced struct {
	*image.NRGBA
}

func (alphaForced) Opaque() bool { return false }

// EncodePNG writes img as 8-bit RGBA PNG, even when every pixel is opaque.
func EncodePNG(w io.Writer, img *image.NRGBA) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, alphaForced{img})
}

func writePNGFile(path string, img *image.NRGBA) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
