package imgutil

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pad(b []byte) []byte {
	out := make([]byte, HeaderSize)
	copy(out, b)
	return out
}

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", pad([]byte{0xff, 0xd8, 0xff, 0xe0}), KindJPEG},
		{"gif", pad([]byte("GIF89a")), KindGIF},
		{"bmp", pad([]byte("BM")), KindBMP},
		{"tiff", pad([]byte{0x4d, 0x4d, 0x00, 0x2a}), KindTIFF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBP"), KindWEBP},
		{"avif", []byte("\x00\x00\x00\x1cftypavif"), KindAVIF},
		{"heic", []byte("\x00\x00\x00\x18ftypheic"), KindHEIC},
		{"unknown", pad([]byte("hello")), KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffFilePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	kind, err := SniffFile(path)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if kind != KindPNG {
		t.Fatalf("expected png, got %s", kind)
	}
}
