package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// LookPath resolves binaries; tests swap it out.
var LookPath = exec.LookPath

// Requirement defines an external tool retroconv can shell out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists every tool the subcommands may invoke. ImageMagick is
// optional as a pair: either magick or convert serves the boxart command.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "ImageMagick 7", Command: "magick", Description: "Boxart backend (preferred)", Optional: true},
		{Name: "ImageMagick 6", Command: "convert", Description: "Boxart backend (legacy)", Optional: true},
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Video transcoding", Optional: true},
		{Name: "FFprobe", Command: "ffprobe", Description: "Video stream inspection", Optional: true},
		{Name: "chdman", Command: "chdman", Description: "Disc image conversion", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// FirstAvailable returns the first command in candidates found on PATH.
func FirstAvailable(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if _, err := LookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}
