package boxart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retroconv/internal/batch"
)

type fakeConverter struct {
	mu    sync.Mutex
	calls []ConversionJob
	fail  map[string]bool
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Convert(_ context.Context, job ConversionJob, _ TransformPlan) error {
	f.mu.Lock()
	f.calls = append(f.calls, job)
	f.mu.Unlock()
	if f.fail[filepath.Base(job.Source)] {
		return errors.New("corrupt input")
	}
	return os.WriteFile(job.Destination, []byte("png"), 0o644)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	}
}

func padOptions(target OutputTarget) Options {
	return Options{
		Dimensions: Dimensions{Width: 128, Height: 115},
		Mode:       ModePad,
		Background: TransparentBackground,
		Target:     target,
		Workers:    1,
	}
}

func TestRunDirectoryWithNonImage(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.png", "sub/c.gif", "notes.txt")

	conv := &fakeConverter{}
	runner := NewRunner(conv, padOptions(OutputTarget{Kind: OutputDirectory, Path: filepath.Join(root, "out")}), quietLogger())

	result, err := runner.Run(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Found)
	summary := result.Summary()
	assert.Equal(t, 3, summary.OK)
	assert.Equal(t, 0, summary.Skipped)
	assert.FileExists(t, filepath.Join(root, "out", "sub", "c.png"))
	assert.FileExists(t, filepath.Join(root, "out", "a.png"))
}

func TestRunSecondPassSkipsExisting(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.jpeg")

	conv := &fakeConverter{}
	runner := NewRunner(conv, padOptions(OutputTarget{}), quietLogger())

	first, err := runner.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Summary().OK)

	second, err := runner.Run(context.Background(), []string{root})
	require.NoError(t, err)
	summary := second.Summary()
	assert.Zero(t, summary.OK)
	assert.Equal(t, summary.Total, summary.Skipped)
	assert.Len(t, conv.calls, 2, "second run must not reconvert")
}

func TestRunExplicitFileWithDirectoryIsAmbiguous(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "only.jpg")

	conv := &fakeConverter{}
	runner := NewRunner(conv, padOptions(OutputTarget{Kind: OutputFile, Path: filepath.Join(t.TempDir(), "x.png")}), quietLogger())

	_, err := runner.Run(context.Background(), []string{root})
	var ambiguous *AmbiguousOutputError
	require.ErrorAs(t, err, &ambiguous)
	assert.Empty(t, conv.calls)
}

func TestRunExplicitFileWithTwoInputsIsAmbiguous(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.jpg")

	conv := &fakeConverter{}
	runner := NewRunner(conv, padOptions(OutputTarget{Kind: OutputFile, Path: filepath.Join(root, "x.png")}), quietLogger())

	_, err := runner.Run(context.Background(), []string{filepath.Join(root, "a.jpg"), filepath.Join(root, "b.jpg")})
	assert.ErrorIs(t, err, ErrAmbiguousOutput)
	assert.Empty(t, conv.calls)
}

func TestRunExplicitFileSingleInput(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "cover.jpg")
	dest := filepath.Join(root, "boxart.png")

	runner := NewRunner(&fakeConverter{}, padOptions(OutputTarget{Kind: OutputFile, Path: dest}), quietLogger())
	result, err := runner.Run(context.Background(), []string{filepath.Join(root, "cover.jpg")})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, batch.OutcomeOK, result.Results[0].Outcome)
	assert.Equal(t, dest, result.Results[0].Job.Destination)
}

func TestRunExplicitOutputEqualToInputIsRejected(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "cover.png")
	src := filepath.Join(root, "cover.png")

	runner := NewRunner(&fakeConverter{}, padOptions(OutputTarget{Kind: OutputFile, Path: src}), quietLogger())
	_, err := runner.Run(context.Background(), []string{src})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRunIsolatesFailuresAndKeepsOrder(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.jpg", "c.jpg", "readme.md")

	conv := &fakeConverter{fail: map[string]bool{"b.jpg": true}}
	opts := padOptions(OutputTarget{})
	opts.Workers = 3
	runner := NewRunner(conv, opts, quietLogger())

	missing := filepath.Join(root, "missing.jpg")
	misusedOutput := filepath.Join(root, "wanted.png")
	inputs := []string{
		filepath.Join(root, "c.jpg"),
		missing,
		filepath.Join(root, "readme.md"),
		filepath.Join(root, "b.jpg"),
		misusedOutput,
		filepath.Join(root, "a.jpg"),
	}

	var observed []batch.Outcome
	runner.Observe = func(res Result) { observed = append(observed, res.Outcome) }

	result, err := runner.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, result.Results, 6)
	outcomes := make([]batch.Outcome, 0, 6)
	for _, r := range result.Results {
		outcomes = append(outcomes, r.Outcome)
	}
	assert.Equal(t, outcomes, observed, "items are reported in input order")
	assert.Equal(t, []batch.Outcome{
		batch.OutcomeOK,
		batch.OutcomeFailed,
		batch.OutcomeSkipped,
		batch.OutcomeFailed,
		batch.OutcomeSkipped,
		batch.OutcomeOK,
	}, outcomes)

	assert.ErrorIs(t, result.Results[1].Err, ErrNotFound)
	assert.ErrorIs(t, result.Results[3].Err, ErrConversion)
	assert.Contains(t, result.Results[4].Reason, "--out")
	assert.Equal(t, 3, result.Found)
	assert.NoFileExists(t, filepath.Join(root, "b.png"))
}

func TestRunDuplicateDestinationsConvertOnce(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "cover.jpg", "cover.webp")

	conv := &fakeConverter{}
	opts := padOptions(OutputTarget{})
	opts.Workers = 2
	result, err := NewRunner(conv, opts, quietLogger()).Run(context.Background(), []string{root})
	require.NoError(t, err)

	summary := result.Summary()
	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, conv.calls, 1)
}

func TestRunNothingFound(t *testing.T) {
	root := t.TempDir()
	result, err := NewRunner(&fakeConverter{}, padOptions(OutputTarget{}), quietLogger()).
		Run(context.Background(), []string{filepath.Join(root, "nope.jpg")})
	require.NoError(t, err)
	assert.Zero(t, result.Found)
}

func TestRunPngSourceNextToItselfIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "cover.png")

	conv := &fakeConverter{}
	opts := padOptions(OutputTarget{})
	opts.Force = true
	result, err := NewRunner(conv, opts, quietLogger()).Run(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, batch.OutcomeSkipped, result.Results[0].Outcome)
	assert.Empty(t, conv.calls)
}

func TestPrepareRejectsBadMode(t *testing.T) {
	opts := padOptions(OutputTarget{})
	opts.Mode = FitMode(42)
	_, err := NewRunner(nil, opts, quietLogger()).Prepare(nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRunReportsInInputOrder(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.jpg", "b.png")

	runner := NewRunner(&fakeConverter{}, padOptions(OutputTarget{}), quietLogger())
	var observed []string
	runner.Observe = func(res Result) {
		observed = append(observed, filepath.Base(res.Source)+":"+res.Outcome.String())
	}

	_, err := runner.Run(context.Background(), []string{filepath.Join(root, "a.jpg"), filepath.Join(root, "b.jpg")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg:" + batch.OutcomeOK.String(), "b.jpg:" + batch.OutcomeSkipped.String()}, observed)
}
