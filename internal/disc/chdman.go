package disc

import (
	"context"

	"retroconv/internal/deps"
)

// Chdman is the subset of chdman operations the disc command uses.
type Chdman interface {
	CreateCD(ctx context.Context, cue, chd string) error
	ExtractRaw(ctx context.Context, chd, out string) error
	ExtractDVD(ctx context.Context, chd, out string) error
}

// Exec runs the chdman binary.
type Exec struct {
	Binary string
	Run    func(ctx context.Context, tool string, args ...string) ([]byte, error)
}

// NewExec returns a chdman wrapper for binary ("chdman" when empty).
func NewExec(binary string) *Exec {
	if binary == "" {
		binary = "chdman"
	}
	return &Exec{Binary: binary, Run: deps.Run}
}

func (e *Exec) CreateCD(ctx context.Context, cue, chd string) error {
	return e.exec(ctx, "createcd", cue, chd)
}

func (e *Exec) ExtractRaw(ctx context.Context, chd, out string) error {
	return e.exec(ctx, "extractraw", chd, out)
}

func (e *Exec) ExtractDVD(ctx context.Context, chd, out string) error {
	return e.exec(ctx, "extractdvd", chd, out)
}

// -f lets chdman write over the reserved temp file.
func (e *Exec) exec(ctx context.Context, verb, in, out string) error {
	_, err := e.Run(ctx, e.Binary, verb, "-i", in, "-o", out, "-f")
	return err
}
