package video

import (
	"errors"
	"slices"
	"strings"

	"retroconv/internal/language"
)

// ErrNoVideoStream is returned for inputs without a video stream.
var ErrNoVideoStream = errors.New("no video stream")

// textSubtitleCodecs can be converted to mov_text.
var textSubtitleCodecs = map[string]struct{}{
	"subrip":   {},
	"srt":      {},
	"ass":      {},
	"ssa":      {},
	"mov_text": {},
	"webvtt":   {},
	"text":     {},
}

// Selection is the set of streams mapped into the output.
type Selection struct {
	Video     Stream
	Audio     []Stream
	Subtitles []Stream
	// Dropped holds preferred-language subtitles that mp4 cannot carry.
	Dropped []Stream
}

// SelectTracks picks the first video stream, the audio streams in the
// preferred languages (falling back to the default, then the first audio
// stream) and the text subtitles in the preferred languages.
func SelectTracks(streams []Stream, prefs []string) (Selection, error) {
	prefs = language.NormalizeList(prefs)

	var (
		sel       Selection
		haveVideo bool
		audio     []Stream
		subs      []Stream
	)
	for _, s := range streams {
		switch strings.ToLower(s.CodecType) {
		case "video":
			if !haveVideo && !isCoverArt(s) {
				sel.Video = s
				haveVideo = true
			}
		case "audio":
			audio = append(audio, s)
		case "subtitle":
			subs = append(subs, s)
		}
	}
	if !haveVideo {
		return Selection{}, ErrNoVideoStream
	}

	sel.Audio = byPreference(audio, prefs)
	if len(sel.Audio) == 0 && len(audio) > 0 {
		fallback := audio[0]
		for _, s := range audio {
			if s.IsDefault() {
				fallback = s
				break
			}
		}
		sel.Audio = []Stream{fallback}
	}

	for _, s := range byPreference(subs, prefs) {
		if _, ok := textSubtitleCodecs[strings.ToLower(s.CodecName)]; ok {
			sel.Subtitles = append(sel.Subtitles, s)
		} else {
			sel.Dropped = append(sel.Dropped, s)
		}
	}
	return sel, nil
}

// byPreference keeps streams whose language is in prefs, ordered by
// preference rank and then stream index.
func byPreference(streams []Stream, prefs []string) []Stream {
	var out []Stream
	for _, s := range streams {
		if language.Rank(s.Language(), prefs) >= 0 {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b Stream) int {
		return language.Rank(a.Language(), prefs) - language.Rank(b.Language(), prefs)
	})
	return out
}

// isCoverArt reports embedded artwork, which ffprobe lists as video.
func isCoverArt(s Stream) bool {
	switch strings.ToLower(s.CodecName) {
	case "mjpeg", "png", "bmp":
		return true
	}
	return false
}
