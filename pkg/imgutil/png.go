package imgutil

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PNG colour types from the IHDR chunk.
const (
	PNGColorGray      = 0
	PNGColorRGB       = 2
	PNGColorPalette   = 3
	PNGColorGrayAlpha = 4
	PNGColorRGBA      = 6
)

var ErrNotPNG = errors.New("invalid PNG signature")

// PNGHeader is the decoded IHDR chunk.
type PNGHeader struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType int
}

func readSignature(br *bufio.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSig))
	if _, err := io.ReadFull(br, sig); err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, pngSig) {
		return nil, ErrNotPNG
	}
	return sig, nil
}

// ReadPNGHeader reads the signature and the leading IHDR chunk.
func ReadPNGHeader(r io.Reader) (PNGHeader, error) {
	br := bufio.NewReader(r)
	if _, err := readSignature(br); err != nil {
		return PNGHeader{}, err
	}

	head := make([]byte, 8+13)
	if _, err := io.ReadFull(br, head); err != nil {
		return PNGHeader{}, fmt.Errorf("read IHDR: %w", err)
	}
	if string(head[4:8]) != "IHDR" || binary.BigEndian.Uint32(head[0:4]) != 13 {
		return PNGHeader{}, errors.New("first chunk is not IHDR")
	}
	data := head[8:]
	return PNGHeader{
		Width:     int(binary.BigEndian.Uint32(data[0:4])),
		Height:    int(binary.BigEndian.Uint32(data[4:8])),
		BitDepth:  int(data[8]),
		ColorType: int(data[9]),
	}, nil
}

// StripPNG copies a PNG from r to w, dropping text, time and EXIF chunks.
// Colour profiles are kept.
func StripPNG(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sig, err := readSignature(br)
	if err != nil {
		return err
	}
	if _, err := bw.Write(sig); err != nil {
		return err
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return err
		}
		chunk := string(typeBuf)

		if droppedChunk(chunk) {
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return err
			}
			continue
		}

		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := bw.Write(typeBuf); err != nil {
			return err
		}
		if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
			return err
		}

		if chunk == "IEND" {
			break
		}
	}

	return bw.Flush()
}

func droppedChunk(name string) bool {
	switch name {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	default:
		return false
	}
}
