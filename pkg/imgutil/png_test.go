package imgutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"testing"
)

func encodeNRGBA(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Pix[3] = 0x80
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func chunk(name string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	copy(out[4:8], name)
	out = append(out, data...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(name))
	crc.Write(data)
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

// withTextChunks inserts tEXt and tIME chunks right after IHDR.
func withTextChunks(src []byte) []byte {
	ihdrEnd := 8 + 8 + 13 + 4
	out := append([]byte{}, src[:ihdrEnd]...)
	out = append(out, chunk("tEXt", []byte("date:create\x002026-01-01"))...)
	out = append(out, chunk("tIME", make([]byte, 7))...)
	return append(out, src[ihdrEnd:]...)
}

func TestReadPNGHeader(t *testing.T) {
	hdr, err := ReadPNGHeader(bytes.NewReader(encodeNRGBA(t, 7, 3)))
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if hdr.Width != 7 || hdr.Height != 3 {
		t.Fatalf("expected 7x3, got %dx%d", hdr.Width, hdr.Height)
	}
	if hdr.ColorType != PNGColorRGBA || hdr.BitDepth != 8 {
		t.Fatalf("expected 8-bit RGBA, got type %d depth %d", hdr.ColorType, hdr.BitDepth)
	}

	if _, err := ReadPNGHeader(bytes.NewReader([]byte("not a png at all"))); err != ErrNotPNG {
		t.Fatalf("expected ErrNotPNG, got %v", err)
	}
}

func TestStripPNGDropsMetadata(t *testing.T) {
	src := withTextChunks(encodeNRGBA(t, 4, 4))
	if !bytes.Contains(src, []byte("tEXt")) {
		t.Fatal("fixture missing tEXt")
	}

	var out bytes.Buffer
	if err := StripPNG(bytes.NewReader(src), &out); err != nil {
		t.Fatalf("strip: %v", err)
	}
	if bytes.Contains(out.Bytes(), []byte("tEXt")) || bytes.Contains(out.Bytes(), []byte("tIME")) {
		t.Fatal("metadata chunks survived")
	}

	img, err := png.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("decode stripped: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}
