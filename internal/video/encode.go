package video

import (
	"fmt"
	"strconv"
)

const (
	HWAccelNone  = "none"
	HWAccelVAAPI = "vaapi"
	HWAccelNVENC = "nvenc"
	HWAccelQSV   = "qsv"
)

// Settings are the encode parameters shared by every job in a run.
type Settings struct {
	HWAccel       string
	VAAPIDevice   string
	BitrateK      int
	MaxrateK      int
	BufsizeK      int
	Height        int
	AudioBitrateK int
}

// Job is one planned transcode.
type Job struct {
	Source    string
	Output    string
	Selection Selection
}

// Encoder returns the ffmpeg video encoder for an hwaccel name.
func Encoder(hwaccel string) (string, error) {
	switch hwaccel {
	case HWAccelNone, "":
		return "libx264", nil
	case HWAccelVAAPI:
		return "h264_vaapi", nil
	case HWAccelNVENC:
		return "h264_nvenc", nil
	case HWAccelQSV:
		return "h264_qsv", nil
	}
	return "", fmt.Errorf("unknown hwaccel %q (valid: none, vaapi, nvenc, qsv)", hwaccel)
}

// BuildArgs assembles the ffmpeg command line for job. The output is an
// H.264/AAC mp4 with mov_text subtitles and the index moved to the front.
func BuildArgs(job Job, s Settings) ([]string, error) {
	encoder, err := Encoder(s.HWAccel)
	if err != nil {
		return nil, err
	}

	args := []string{"-hide_banner", "-nostdin", "-y"}
	if s.HWAccel == HWAccelVAAPI {
		device := s.VAAPIDevice
		if device == "" {
			device = "/dev/dri/renderD128"
		}
		args = append(args, "-vaapi_device", device)
	}
	args = append(args, "-i", job.Source)

	sel := job.Selection
	args = append(args, "-map", streamRef(sel.Video))
	for _, a := range sel.Audio {
		args = append(args, "-map", streamRef(a))
	}
	for _, sub := range sel.Subtitles {
		args = append(args, "-map", streamRef(sub))
	}

	if filter := scaleFilter(sel.Video, s); filter != "" {
		args = append(args, "-vf", filter)
	}

	args = append(args,
		"-c:v", encoder,
		"-b:v", kbps(s.BitrateK),
		"-maxrate", kbps(s.MaxrateK),
		"-bufsize", kbps(s.BufsizeK),
	)
	if encoder == "libx264" {
		args = append(args, "-preset", "medium", "-pix_fmt", "yuv420p")
	}

	if len(sel.Audio) > 0 {
		args = append(args, "-c:a", "aac", "-b:a", kbps(s.AudioBitrateK), "-ac", "2")
		args = append(args, "-disposition:a:0", "default")
	}
	if len(sel.Subtitles) > 0 {
		args = append(args, "-c:s", "mov_text")
	}

	return append(args,
		"-map_metadata", "0",
		"-movflags", "+faststart",
		"-f", "mp4",
		job.Output,
	), nil
}

// scaleFilter downscales to the target height, never upscales.
func scaleFilter(v Stream, s Settings) string {
	if s.Height <= 0 || (v.Height > 0 && v.Height <= s.Height) {
		if s.HWAccel == HWAccelVAAPI {
			return "format=nv12,hwupload"
		}
		return ""
	}
	if s.HWAccel == HWAccelVAAPI {
		return fmt.Sprintf("format=nv12,hwupload,scale_vaapi=w=-2:h=%d", s.Height)
	}
	return fmt.Sprintf("scale=-2:%d", s.Height)
}

func streamRef(s Stream) string {
	return "0:" + strconv.Itoa(s.Index)
}

func kbps(k int) string {
	return strconv.Itoa(k) + "k"
}
